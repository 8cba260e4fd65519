package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// newRootCmd builds the full command tree. A fresh tree per invocation
// keeps flag state out of package globals, which also makes the commands
// testable in-process.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "keywrap",
		Short: "Wrap and unwrap key material with AES Key Wrap (RFC 3394/5649)",
		Long: `keywrap protects one symmetric key under another using the AES Key Wrap
algorithm from RFC 3394, or its padded variant from RFC 5649 for key
material of arbitrary length. Output is deterministic: the same KEK and
plaintext always produce the same wrapped bytes.

KEK files are raw binary, 16, 24 or 32 bytes long, selecting AES-128,
AES-192 or AES-256.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			return initConfig(cfgFile)
		},
	}
	root.PersistentFlags().String("config", "", "config file (default $HOME/.keywrap.yaml)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.PersistentFlags().String("keyring", "", "keyring file (default $HOME/.keywrap-keyring.json)")
	_ = viper.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("keyring", root.PersistentFlags().Lookup("keyring"))

	root.AddCommand(newWrapCmd(), newUnwrapCmd(), newInspectCmd(), newKeyringCmd())
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".keywrap")
	}
	viper.SetEnvPrefix("KEYWRAP")
	viper.AutomaticEnv()
	// only a config file named explicitly must exist
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		return err
	}
	initLogger()
	return nil
}

func initLogger() {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if viper.GetBool("debug") {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return
	}
	log = l.Sugar()
}

// keyringPath resolves the registry location from flag, env or default.
func keyringPath() string {
	if p := viper.GetString("keyring"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".keywrap-keyring.json"
	}
	return filepath.Join(home, ".keywrap-keyring.json")
}
