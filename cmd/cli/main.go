package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/coinvest/coinvest/internal/adapter/repository/postgres"
	"github.com/coinvest/coinvest/internal/infrastructure/config"
	"github.com/coinvest/coinvest/internal/infrastructure/postgres"
	"github.com/coinvest/coinvest/internal/usecase"
)

var (
	serverURL string
	authToken string
	timeout   time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coinvest-cli",
		Short: "Coinvest operations tool",
		Long:  `A command line interface for operational tasks against a running Coinvest server and its database.`,
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Admin bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	// Transaction commands
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction operations",
	}

	txApproveCmd := &cobra.Command{
		Use:   "approve [id]",
		Short: "Approve a pending transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			transitionTransaction(args[0], "approve")
		},
	}

	txRejectCmd := &cobra.Command{
		Use:   "reject [id]",
		Short: "Reject a pending transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			transitionTransaction(args[0], "reject")
		},
	}

	txCmd.AddCommand(txApproveCmd, txRejectCmd)
	rootCmd.AddCommand(txCmd)

	// Plan commands
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Investment plan operations",
	}

	planSeedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default plan catalog",
		Run: func(cmd *cobra.Command, args []string) {
			seedPlans()
		},
	}

	planCmd.AddCommand(planSeedCmd)
	rootCmd.AddCommand(planCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var verifyUserID string
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify that user balances are derivable from the ledger",
		Run: func(cmd *cobra.Command, args []string) {
			verifyLedger(verifyUserID)
		},
	}
	verifyCmd.Flags().StringVar(&verifyUserID, "user", "", "Verify a single user instead of all users")

	ledgerCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(ledgerCmd)

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(false)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(true)
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func callAPI(method, path string, body any) (*apiEnvelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, serverURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		return &envelope, fmt.Errorf("%s (HTTP %d, code %s)", envelope.Message, resp.StatusCode, envelope.Code)
	}

	return &envelope, nil
}

func transitionTransaction(id, action string) {
	envelope, err := callAPI(http.MethodPut, "/api/v1/admin/transactions/"+id+"/"+action, nil)
	if err != nil {
		fmt.Printf("Failed to %s transaction: %v\n", action, err)
		os.Exit(1)
	}

	var txn struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount string `json:"amount"`
		Type   string `json:"type"`
	}
	if err := json.Unmarshal(envelope.Data, &txn); err != nil {
		fmt.Printf("Unexpected response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Transaction %s: %s (%s %s)\n", txn.ID, txn.Status, txn.Type, txn.Amount)
}

func seedPlans() {
	plans := []map[string]any{
		{
			"name": "Starter", "interest": "5", "duration": 30, "duration_unit": "Days",
			"minimum_amount": "100", "maximum_amount": "1000",
			"trading_commission": "1", "referral_bonus": "2", "category": "basic", "status": "Active",
		},
		{
			"name": "Growth", "interest": "10", "duration": 90, "duration_unit": "Days",
			"minimum_amount": "1000", "maximum_amount": "10000",
			"trading_commission": "2", "referral_bonus": "3", "category": "standard", "status": "Active",
		},
		{
			"name": "Premium", "interest": "18", "duration": 6, "duration_unit": "Months",
			"minimum_amount": "10000", "maximum_amount": "100000",
			"trading_commission": "3", "referral_bonus": "5", "category": "premium", "status": "Active",
		},
	}

	for _, plan := range plans {
		if _, err := callAPI(http.MethodPost, "/api/v1/plans/", plan); err != nil {
			fmt.Printf("Failed to create plan %s: %v\n", plan["name"], err)
			os.Exit(1)
		}
		fmt.Printf("Created plan %s\n", plan["name"])
	}
}

func verifyLedger(userID string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		fmt.Printf("Failed to connect to postgres: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	ledgerUC := usecase.NewLedgerUseCase(
		postgresRepo.NewUserRepository(pool),
		postgresRepo.NewTransactionRepository(pool),
	)

	if userID != "" {
		result, err := ledgerUC.VerifyUser(ctx, userID)
		if err != nil {
			fmt.Printf("Verification failed: %v\n", err)
			os.Exit(1)
		}

		if result.Consistent {
			fmt.Printf("User %s: CONSISTENT\n", userID)
			return
		}

		fmt.Printf("User %s: INCONSISTENT\n", userID)
		fmt.Printf("  active capital drift:       %s\n", result.ActiveCapitalDrift)
		fmt.Printf("  return on investment drift: %s\n", result.ROIDrift)
		fmt.Printf("  dormant funds drift:        %s\n", result.DormantFundsDrift)
		os.Exit(1)
	}

	report, err := ledgerUC.VerifyAll(ctx)
	if err != nil {
		fmt.Printf("Verification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Checked %d users, %d consistent\n", report.TotalUsers, report.ConsistentUsers)
	if len(report.Discrepancies) == 0 {
		fmt.Println("Ledger verification PASSED")
		return
	}

	fmt.Printf("Ledger verification FAILED: %d discrepancies\n", len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		fmt.Printf("  user %s: ac=%s roi=%s df=%s\n",
			d.UserID, d.ActiveCapitalDrift, d.ROIDrift, d.DormantFundsDrift)
	}
	os.Exit(1)
}

func runMigrations(down bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if down {
		err = postgres.RunMigrationsDown(cfg.DatabaseURL, "migrations")
	} else {
		err = postgres.RunMigrations(cfg.DatabaseURL, "migrations")
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations complete")
}
