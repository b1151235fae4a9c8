package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clearing-cli",
		Short: "Clearing engine CLI tool",
		Long:  `A command line interface for interacting with the clearing engine API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the clearing API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Ledger audits",
	}
	auditCmd.AddCommand(&cobra.Command{
		Use:   "conservation",
		Short: "Check money conservation across all accounts",
		Run: func(cmd *cobra.Command, args []string) {
			checkConservation()
		},
	})
	auditCmd.AddCommand(&cobra.Command{
		Use:   "transits",
		Short: "Check that all relay transit accounts rest at zero",
		Run: func(cmd *cobra.Command, args []string) {
			checkTransits()
		},
	})
	rootCmd.AddCommand(auditCmd)

	bookCmd := &cobra.Command{
		Use:   "book <currency> <commodity>",
		Short: "Show a book snapshot, cheapest first",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			showBook(args[0], args[1])
		},
	}
	rootCmd.AddCommand(bookCmd)

	accountsCmd := &cobra.Command{
		Use:   "accounts <owner-id>",
		Short: "List an owner's accounts",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			listAccounts(args[0])
		},
	}
	rootCmd.AddCommand(accountsCmd)

	banksCmd := &cobra.Command{
		Use:   "banks",
		Short: "List registered banks",
		Run: func(cmd *cobra.Command, args []string) {
			listBanks()
		},
	}
	rootCmd.AddCommand(banksCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) ([]byte, int) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return body, resp.StatusCode
}

func checkConservation() {
	body, status := get("/api/v1/audit/conservation")
	if status != http.StatusOK {
		fmt.Printf("Conservation check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var result struct {
		Balanced bool `json:"balanced"`
		Stocks   []struct {
			Currency  string `json:"currency"`
			MoneyType string `json:"money_type"`
			Total     string `json:"total"`
			Positive  string `json:"positive"`
			Accounts  int    `json:"accounts"`
		} `json:"stocks"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Balanced {
		fmt.Println("Conservation check PASSED")
	} else {
		fmt.Println("Conservation check FAILED")
	}
	for _, s := range result.Stocks {
		fmt.Printf("  %s/%s: total=%s gross=%s accounts=%d\n", s.Currency, s.MoneyType, s.Total, s.Positive, s.Accounts)
	}
	if !result.Balanced {
		os.Exit(1)
	}
}

func checkTransits() {
	body, status := get("/api/v1/audit/transits")
	if status != http.StatusOK {
		fmt.Printf("Transit check FAILED (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}
	fmt.Println("Transit check PASSED")
}

func showBook(currency, commodity string) {
	body, status := get("/api/v1/books/" + url.PathEscape(currency) + "/" + url.PathEscape(commodity) + "/")
	if status != http.StatusOK {
		fmt.Printf("Book request failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var book struct {
		Depth  string `json:"depth"`
		Levels []struct {
			OrderID   string `json:"order_id"`
			OfferorID string `json:"offeror_id"`
			Amount    string `json:"amount"`
			Price     string `json:"price"`
		} `json:"levels"`
	}
	if err := json.Unmarshal(body, &book); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Book %s/%s depth=%s\n", currency, commodity, book.Depth)
	for _, l := range book.Levels {
		fmt.Printf("  %s x %s  (order %s, offeror %s)\n", l.Amount, l.Price, l.OrderID, l.OfferorID)
	}
}

func listAccounts(ownerID string) {
	body, status := get("/api/v1/owners/" + url.PathEscape(ownerID) + "/accounts")
	if status != http.StatusOK {
		fmt.Printf("Account listing failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var accounts []struct {
		ID        string `json:"id"`
		BankID    string `json:"bank_id"`
		Currency  string `json:"currency"`
		MoneyType string `json:"money_type"`
		Balance   string `json:"balance"`
	}
	if err := json.Unmarshal(body, &accounts); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, a := range accounts {
		fmt.Printf("%s  %s %s %s  (bank %s)\n", a.ID, a.Balance, a.Currency, a.MoneyType, a.BankID)
	}
}

func listBanks() {
	body, status := get("/api/v1/banks/")
	if status != http.StatusOK {
		fmt.Printf("Bank listing failed (Status: %d)\nResponse: %s\n", status, string(body))
		os.Exit(1)
	}

	var banks []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Kind     string `json:"kind"`
		Currency string `json:"currency,omitempty"`
	}
	if err := json.Unmarshal(body, &banks); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	for _, b := range banks {
		fmt.Printf("%s  %-12s %s %s\n", b.ID, b.Kind, b.Name, b.Currency)
	}
}
