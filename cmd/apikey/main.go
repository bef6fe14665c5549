// Command apikey prints the argon2id hash to put in auth.api_key_hash for a
// given internal API key.
package main

import (
	"bufio"
	"fmt"
	"os"
	"pulsewatch/internals/security"
	"strings"
)

func main() {
	key := ""
	if len(os.Args) > 1 {
		key = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "api key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "read key:", err)
			os.Exit(1)
		}
		key = strings.TrimSpace(line)
	}

	if len(key) < 16 {
		fmt.Fprintln(os.Stderr, "api key must be at least 16 characters")
		os.Exit(1)
	}

	hash, err := security.HashAPIKey(key)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash key:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
