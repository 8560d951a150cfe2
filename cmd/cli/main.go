package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "passbook-cli",
		Short: "Passbook CLI tool",
		Long:  `A command line interface for interacting with the Passbook customer ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Passbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(customerCmd(), transferCmd(), ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func customerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Customer operations",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Run: func(cmd *cobra.Command, args []string) {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")

			postAndPrint("/api/v1/customers/", map[string]string{
				"name":  name,
				"email": email,
			})
		},
	}
	createCmd.Flags().String("name", "", "Customer name")
	createCmd.Flags().String("email", "", "Customer email")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")

	depositCmd := &cobra.Command{
		Use:   "deposit <id> <amount>",
		Short: "Deposit funds, e.g. passbook-cli customer deposit 01ABC 12.50",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/customers/"+args[0]+"/deposits", map[string]string{
				"amount": args[1],
			})
		},
	}

	withdrawCmd := &cobra.Command{
		Use:   "withdraw <id> <amount>",
		Short: "Withdraw funds",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/customers/"+args[0]+"/withdrawals", map[string]string{
				"amount": args[1],
			})
		},
	}

	cmd.AddCommand(createCmd, depositCmd, withdrawCmd)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a customer record",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				getAndPrint("/api/v1/customers/" + args[0])
			},
		},
		&cobra.Command{
			Use:   "balance <id>",
			Short: "Show a customer's derived balance",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				getAndPrint("/api/v1/customers/" + args[0] + "/balance")
			},
		},
		&cobra.Command{
			Use:   "operations <id>",
			Short: "List a customer's balance operations in append order",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				getAndPrint("/api/v1/customers/" + args[0] + "/operations")
			},
		},
	)

	return cmd
}

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer operations",
	}

	createCmd := &cobra.Command{
		Use:   "create <source-id> <destination-id> <amount>",
		Short: "Move funds between two customers",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/transfers/", map[string]string{
				"source_id":      args[0],
				"destination_id": args[1],
				"amount":         args[2],
			})
		},
	}
	cmd.AddCommand(createCmd)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show a transfer",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				getAndPrint("/api/v1/transfers/" + args[0])
			},
		},
		&cobra.Command{
			Use:   "legs <id>",
			Short: "Show the two ledger legs of a transfer",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				getAndPrint("/api/v1/transfers/" + args[0] + "/operations")
			},
		},
	)

	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	})

	return cmd
}

func getAndPrint(path string) {
	body, status, err := apiGet(path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	if status != http.StatusOK {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func checkConsistency() {
	body, status, err := apiGet("/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if status != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\n", status)
		printJSON(result)
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	if consistent, ok := result["consistent"].(bool); ok {
		fmt.Printf("Consistent: %v\n", consistent)
	}
	if total, ok := result["transfer_leg_total"].(float64); ok {
		fmt.Printf("Transfer leg total: %s\n", formatAmount(int64(total)))
	}
}

func postAndPrint(path string, payload any) {
	body, status, err := apiPost(path, payload)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}

	if status < 200 || status >= 300 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func apiPost(path string, payload any) ([]byte, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

func apiGet(path string) ([]byte, int, error) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}

// formatAmount renders minor units as a decimal string for display,
// e.g. 1250 -> "12.50".
func formatAmount(minorUnits int64) string {
	return decimal.New(minorUnits, -2).StringFixed(2)
}
