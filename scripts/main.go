package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ahamo-portal/portal/scripts/internal"
)

// Command represents a script that can be run
type Command struct {
	Name        string
	Description string
	Run         func() error
}

var commands = []Command{
	{
		Name:        "seed-plans",
		Description: "Upsert the plans of a JSON file into Postgres",
		Run:         internal.SeedPlans,
	},
	{
		Name:        "simulate",
		Description: "Simulate a plan change offline against a JSON plan file",
		Run:         internal.SimulatePlanChange,
	},
}

func main() {
	// Define command line flags
	var (
		listCommands  bool
		cmdName       string
		plansFile     string
		currentPlanID string
		newPlanID     string
		periodStart   string
		periodEnd     string
		effectiveDate string
	)

	flag.BoolVar(&listCommands, "list", false, "List all available commands")
	flag.StringVar(&cmdName, "cmd", "", "Command to run")
	flag.StringVar(&plansFile, "plans-file", "scripts/data/plans.json", "Path to plans JSON file")
	flag.StringVar(&currentPlanID, "current-plan", "", "Current plan ID for simulate")
	flag.StringVar(&newPlanID, "new-plan", "", "Target plan ID for simulate")
	flag.StringVar(&periodStart, "period-start", "", "Billing period start (YYYY-MM-DD) for simulate")
	flag.StringVar(&periodEnd, "period-end", "", "Billing period end, exclusive (YYYY-MM-DD) for simulate")
	flag.StringVar(&effectiveDate, "effective-date", "", "Optional effective date (YYYY-MM-DD) for simulate")

	flag.Parse()

	if listCommands {
		fmt.Println("Available commands:")
		for _, cmd := range commands {
			fmt.Printf("  %-20s %s\n", cmd.Name, cmd.Description)
		}
		return
	}

	if cmdName == "" {
		log.Fatal("Please specify a command to run using -cmd flag. Use -list to see available commands.")
	}

	// Set command-specific environment variables
	os.Setenv("PLANS_FILE", plansFile)
	if currentPlanID != "" {
		os.Setenv("CURRENT_PLAN_ID", currentPlanID)
	}
	if newPlanID != "" {
		os.Setenv("NEW_PLAN_ID", newPlanID)
	}
	if periodStart != "" {
		os.Setenv("PERIOD_START", periodStart)
	}
	if periodEnd != "" {
		os.Setenv("PERIOD_END", periodEnd)
	}
	if effectiveDate != "" {
		os.Setenv("EFFECTIVE_DATE", effectiveDate)
	}

	// Find and run the command
	for _, cmd := range commands {
		if cmd.Name == cmdName {
			if err := cmd.Run(); err != nil {
				log.Fatalf("Error running command %s: %v", cmdName, err)
			}
			return
		}
	}

	log.Fatalf("Unknown command: %s. Use -list to see available commands.", cmdName)
}
