package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solaris-diary/solaris/internal/browser"
	"github.com/solaris-diary/solaris/internal/config"
	"github.com/solaris-diary/solaris/internal/credentials"
	"github.com/solaris-diary/solaris/internal/deviceauth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage cloud authentication",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the solaris cloud using a device code",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	env, err := loadEnv()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	client := deviceauth.New(
		deviceauth.Config{
			DeviceCodeURL: env.cfg.Cloud.DeviceCodeURL,
			TokenURL:      env.cfg.Cloud.TokenURL,
			ClientID:      env.cfg.Cloud.ClientID,
		},
		credentials.NewStore(config.TokenPath(env.base)),
		deviceauth.WithOutput(out),
		deviceauth.WithOpener(browser.NewOpener(env.log)),
		deviceauth.WithLogger(env.log),
	)

	if _, err := client.Login(ctx); err != nil {
		return loginError(err)
	}
	fmt.Fprintln(out, "Authenticated successfully!")
	return nil
}

// loginError turns a device flow failure into a message for the terminal.
func loginError(err error) error {
	switch {
	case errors.Is(err, deviceauth.ErrDeviceCodeExpired):
		return errors.New("the code expired before it was confirmed, run: solaris auth login")
	case errors.Is(err, deviceauth.ErrAuthorizationDenied):
		return errors.New("authorization was denied")
	}
	return fmt.Errorf("authentication failed: %w", err)
}

func runLogout(cmd *cobra.Command, args []string) error {
	base, err := config.BaseDir()
	if err != nil {
		return err
	}
	if err := credentials.NewStore(config.TokenPath(base)).Clear(); err != nil {
		return fmt.Errorf("removing credential: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
	return nil
}
