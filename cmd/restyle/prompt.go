package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// askYesNo blocks on standard input until the operator answers. Only a
// case-insensitive "yes" or "y" accepts; anything else, including EOF,
// declines.
func askYesNo(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
