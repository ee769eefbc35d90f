package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"fuelpay-terminal/internal/stubapi"
)

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	ignoreDispense := flag.Bool("ignore-dispense-token", false, "complete purchases without dispense-token verification")
	flag.Parse()

	stub := stubapi.New()
	stub.IgnoreDispenseToken = *ignoreDispense

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[Stub] fuel-wallet API stub listening on %s", addr)
	log.Printf("[Stub] login: phone=%s password=%s pin=%s", stub.Phone, stub.Password, stub.PIN)
	if err := http.ListenAndServe(addr, stub.Handler()); err != nil {
		log.Fatalf("stub server failed: %v", err)
	}
}
