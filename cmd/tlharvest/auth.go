package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"tlharvest/pkg/auth"
	"tlharvest/pkg/ui"
)

var accountName string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials",
	Long: `Manage stored API credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (TLHARVEST_CONSUMER_KEY and friends, read only)

Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store API credentials securely",
	Long: `Store the four OAuth 1.0a secrets of a developer app.

You will be prompted for the consumer key, consumer secret, access token and
access token secret. Input is hidden when reading from a terminal.`,
	Example: `  # Store the default account
  tlharvest auth login

  # Store a second app under its own name
  tlharvest auth login --name research`,
	Args: cobra.NoArgs,
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <name>",
	Short: "Remove stored credentials",
	Args:  cobra.ExactArgs(1),
	Run:   runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked secrets.`,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)

	loginCmd.Flags().StringVarP(&accountName, "name", "n", "default", "name to store the account under")
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := strings.TrimSpace(accountName)
	if name == "" {
		ui.PrintError("Account name is required")
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("Account '%s' already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("Copy the four values from the 'Keys and tokens' page of your developer app.")
	fmt.Println("Enter them below (they will be hidden as you type):")

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Consumer key", new(string)},
		{"Consumer secret", new(string)},
		{"Access token", new(string)},
		{"Access token secret", new(string)},
	}
	for _, p := range prompts {
		fmt.Printf("%s: ", p.label)
		value, err := readSecret(reader)
		if err != nil {
			ui.PrintError("Failed to read "+strings.ToLower(p.label), err.Error())
			os.Exit(1)
		}
		*p.dst = value
		fmt.Println()
	}

	account := &auth.Account{
		Name:           name,
		ConsumerKey:    *prompts[0].dst,
		ConsumerSecret: *prompts[1].dst,
		AccessToken:    *prompts[2].dst,
		AccessSecret:   *prompts[3].dst,
	}
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Account saved: %s", name))
	fmt.Println("\nUse it with:")
	fmt.Printf("  tlharvest harvest --account %s --users-file users.csv --since 2017-01-01 --until 2017-02-01\n", name)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if err := manager.Delete(args[0]); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Account removed: " + args[0])
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'tlharvest auth login' to add an account")
		return
	}

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. %s\n", i+1, ui.Cyan(sanitized.Name))
		fmt.Printf("   Consumer key:    %s\n", sanitized.ConsumerKey)
		fmt.Printf("   Consumer secret: %s\n", sanitized.ConsumerSecret)
		fmt.Printf("   Access token:    %s\n", sanitized.AccessToken)
		fmt.Printf("   Access secret:   %s\n", sanitized.AccessSecret)
		if !sanitized.LastModified.IsZero() {
			fmt.Printf("   Last modified:   %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		b, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
