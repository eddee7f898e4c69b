// walink is a CLI tool for generating WhatsApp order links.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	walink product -gateway URL -id N
//	walink cart -gateway URL -session ID
//	walink raw -number 573001112233 -text "Hola"
//
// Examples:
//
//	walink product -gateway http://localhost:8080 -id 2
//	walink cart -gateway http://localhost:8080 -session demo -q
//	walink raw -number 573001112233 -text "¿Tienen stock?"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tienda-gateway/internal/dispatch"
)

var client = &http.Client{Timeout: 30 * time.Second}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "product":
		runProduct(args)
	case "cart":
		runCart(args)
	case "raw":
		runRaw(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `walink - WhatsApp order link tool

Usage:
  walink <command> [options]

Commands:
  product   Build the order link for a single product
  cart      Build the order link for a session's cart
  raw       Build a link from a number and message text

Examples:
  walink product -gateway http://localhost:8080 -id 2
  walink cart -gateway http://localhost:8080 -session demo -q
  walink raw -number 573001112233 -text "¿Tienen stock?"
`)
}

// orderResponse mirrors the gateway's order endpoints.
type orderResponse struct {
	URL            string `json:"url"`
	Message        string `json:"message"`
	TotalFormatted string `json:"total_formatted"`
}

func runProduct(args []string) {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	gateway := fs.String("gateway", "http://localhost:8080", "gateway base URL")
	id := fs.Int64("id", 0, "product ID")
	quiet := fs.Bool("q", false, "print only the link")
	fs.Parse(args)

	if *id <= 0 {
		fatal("product requires -id")
	}

	printOrder(fetchOrder(fmt.Sprintf("%s/api/products/%d/order", *gateway, *id)), *quiet)
}

func runCart(args []string) {
	fs := flag.NewFlagSet("cart", flag.ExitOnError)
	gateway := fs.String("gateway", "http://localhost:8080", "gateway base URL")
	session := fs.String("session", "", "cart session ID")
	quiet := fs.Bool("q", false, "print only the link")
	fs.Parse(args)

	if *session == "" {
		fatal("cart requires -session")
	}

	printOrder(fetchOrder(fmt.Sprintf("%s/api/cart/%s/order", *gateway, *session)), *quiet)
}

func runRaw(args []string) {
	fs := flag.NewFlagSet("raw", flag.ExitOnError)
	number := fs.String("number", "", "destination number, digits only")
	text := fs.String("text", "", "message text")
	fs.Parse(args)

	if *number == "" || *text == "" {
		fatal("raw requires -number and -text")
	}

	dl := &dispatch.DeepLink{}
	fmt.Println(dl.URL(*number, *text))
}

func fetchOrder(url string) orderResponse {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		fatal(err.Error())
	}

	resp, err := client.Do(req)
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fatal(fmt.Sprintf("gateway returned %d: %s", resp.StatusCode, body))
	}

	var order orderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		fatal(fmt.Sprintf("parsing response: %v", err))
	}
	return order
}

func printOrder(order orderResponse, quiet bool) {
	if quiet {
		fmt.Println(order.URL)
		return
	}
	fmt.Printf("Total: %s\n\n%s\n\n%s\n", order.TotalFormatted, order.Message, order.URL)
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
