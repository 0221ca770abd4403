// The sweeper is the scheduled trigger for the daily reset. A cron entry (or
// any job scheduler) runs this binary once per day; it calls the reset
// endpoint and prints the tally.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type report struct {
	UsersProcessed int `json:"users_processed"`
	UsersFailed    int `json:"users_failed"`
}

type resetResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Report  *report `json:"report"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	backendURL := os.Getenv("BACKEND_ENDPOINT")
	if backendURL == "" {
		backendURL = "http://localhost:3000"
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(backendURL+"/v1/progress/reset", "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		log.Fatalf("reset request failed: %v", err)
	}
	defer resp.Body.Close()

	var out resetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("decode reset response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		log.Fatalf("reset failed: status=%d message=%q", resp.StatusCode, out.Message)
	}

	if out.Report != nil {
		fmt.Printf("daily reset complete: %d users processed, %d failed\n",
			out.Report.UsersProcessed, out.Report.UsersFailed)
	} else {
		fmt.Println("daily reset complete")
	}
}
