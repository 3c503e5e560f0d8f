package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var ladderID string

func init() {
	standingsCmd.Flags().StringVar(&ladderID, "ladder", "", "Ladder ID to show standings for")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(laddersCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(refreshWeatherCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var laddersCmd = &cobra.Command{
	Use:   "ladders",
	Short: "List the ladders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/ladders")
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the standings for a ladder",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ladderID == "" {
			return fmt.Errorf("--ladder is required")
		}
		return performGetRequest("/ladders/standings?ladder_id=" + ladderID)
	},
}

var refreshWeatherCmd = &cobra.Command{
	Use:   "refresh-weather",
	Short: "Trigger a forecast refresh from the upstream weather API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/weather/refresh")
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Prune expired availability, sessions and forecasts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/cleanup")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
