package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tweetpeek/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage stored API credentials",
	Long: `Manage stored Twitter API credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your credentials or config files!`,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login [profile]",
	Short: "Store API credentials securely",
	Long: `Store a Twitter API bearer token securely in the system keychain or an
encrypted file.

You will be prompted for:
  - Bearer token (from the developer portal, hidden as you type)
  - API key and secret (optional, press Enter to skip)

Get a bearer token from https://developer.twitter.com under your project's
"Keys and tokens" tab.`,
	Example: `  # Store under the default profile
  tweetpeek auth login

  # Keep separate credentials per project
  tweetpeek auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAuthLogin,
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout [profile]",
	Short: "Remove stored credentials",
	Long:  `Remove stored credentials for a profile (default profile if none given).`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runAuthLogout,
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored credential profiles",
	Long:  `List stored credential profiles with sanitized token previews.`,
	Args:  cobra.NoArgs,
	Run:   runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	profile := auth.DefaultProfile
	if len(args) > 0 {
		profile = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if manager.Exists(profile) {
		fmt.Printf("Profile %q already exists. Update credentials? (y/N): ", profile)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	var token string
	for {
		fmt.Print("Bearer token: ")
		token, err = readSecret()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to read token:", err)
			os.Exit(1)
		}
		if len(token) < 20 {
			fmt.Println("That doesn't look like a bearer token; they are long opaque strings.")
			fmt.Print("Try again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	fmt.Print("API key (optional, press Enter to skip): ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)

	apiSecret := ""
	if apiKey != "" {
		fmt.Print("API secret: ")
		apiSecret, err = readSecret()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to read API secret:", err)
			os.Exit(1)
		}
	}

	account := &auth.Account{
		Profile:      profile,
		BearerToken:  token,
		APIKey:       apiKey,
		APISecret:    apiSecret,
		LastModified: time.Now(),
	}

	if err := manager.Store(account); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to store credentials:", err)
		os.Exit(1)
	}

	fmt.Printf("Credentials stored for profile %q.\n", profile)
	fmt.Println("\nCollect posts with:")
	fmt.Println("  tweetpeek collect <keyword>")
	if profile != auth.DefaultProfile {
		fmt.Printf("  tweetpeek collect <keyword> --profile %s\n", profile)
	}
}

func runAuthLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	profile := auth.DefaultProfile
	if len(args) > 0 {
		profile = args[0]
	}

	if err := manager.Delete(profile); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to remove credentials:", err)
		os.Exit(1)
	}
	fmt.Printf("Credentials removed for profile %q.\n", profile)
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize credential manager:", err)
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to list credentials:", err)
		os.Exit(1)
	}

	if len(accounts) == 0 {
		fmt.Println("No stored credentials. Use 'tweetpeek auth login' to add some.")
		return
	}

	for _, account := range accounts {
		fmt.Printf("Profile: %s\n", account.Profile)
		fmt.Printf("  Bearer token: %s\n", sanitizeToken(account.BearerToken))
		if account.APIKey != "" {
			fmt.Printf("  API key:      %s\n", sanitizeToken(account.APIKey))
		}
		if !account.LastModified.IsZero() {
			fmt.Printf("  Last updated: %s\n", account.LastModified.Format("2006-01-02 15:04:05"))
		}
	}
}

// readSecret reads a value from stdin without echoing
func readSecret() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	// Fallback for piped input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// sanitizeToken shows just enough of a secret to recognize it
func sanitizeToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
