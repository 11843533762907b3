// cmd/tools/contracts/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"careerlens/internal/common/validation"
	"careerlens/pkg/contracts"
)

var registryPath string

func main() {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	lintCmd := flag.NewFlagSet("lint", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{listCmd, lintCmd, checkCmd} {
		fs.StringVar(&registryPath, "path", "", "Path to a registry file (default: the registry built into the client)")
	}

	checkID := checkCmd.String("id", "", "Contract ID (e.g., recommendations.list)")
	checkFile := checkCmd.String("file", "", "File holding a captured response body")
	exportOut := exportCmd.String("out", "contracts.json", "Where to write the registry")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		reg := mustLoad()
		sort.Slice(reg.Contracts, func(i, j int) bool { return reg.Contracts[i].ID < reg.Contracts[j].ID })
		for _, c := range reg.Contracts {
			fmt.Printf("%-22s %-6s %s\n", c.ID, c.Method, c.Path)
		}

	case "lint":
		lintCmd.Parse(os.Args[2:])
		reg := mustLoad()
		problems := reg.Lint()
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Printf("  - %s\n", p)
			}
			fmt.Printf("Registry lint failed: %d problem(s).\n", len(problems))
			os.Exit(1)
		}
		fmt.Printf("Registry lint passed. Found %d contracts.\n", len(reg.Contracts))

	case "check":
		checkCmd.Parse(os.Args[2:])
		if *checkID == "" || *checkFile == "" {
			fmt.Println("Error: id and file are required for check.")
			checkCmd.Usage()
			os.Exit(1)
		}
		result, err := checkResponse(mustLoad(), *checkID, *checkFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if !result.Valid {
			for _, e := range result.Errors {
				fmt.Printf("  - [%s] %s: %s\n", e.Code, e.Field, e.Message)
			}
			fmt.Printf("Response does not satisfy %s: %d violation(s).\n", *checkID, len(result.Errors))
			os.Exit(1)
		}
		fmt.Printf("Response satisfies %s.\n", *checkID)

	case "export":
		exportCmd.Parse(os.Args[2:])
		reg, err := contracts.Default()
		if err != nil {
			fmt.Printf("Error loading built-in registry: %v\n", err)
			os.Exit(1)
		}
		reg.LastUpdated = time.Now().Format(time.RFC3339)
		if err := saveRegistry(reg, *exportOut); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d contracts to %s\n", len(reg.Contracts), *exportOut)

	case "help":
		fallthrough
	default:
		help()
	}
}

func mustLoad() *contracts.Registry {
	var (
		reg *contracts.Registry
		err error
	)
	if registryPath == "" {
		reg, err = contracts.Default()
	} else {
		reg, err = contracts.LoadRegistry(registryPath)
	}
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}
	return reg
}

// checkResponse lists every schema violation in a captured body, not just the first.
func checkResponse(reg *contracts.Registry, id, file string) (*validation.ValidationResult, error) {
	c, ok := reg.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown contract %s", id)
	}
	if c.ResponseSchema == nil {
		return &validation.ValidationResult{Valid: true}, nil
	}
	body, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return validation.ValidateDocument(body, c.ResponseSchema)
}

func saveRegistry(reg *contracts.Registry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: contracts <command> [flags]

Commands:
  list    List the response contracts
  lint    Check the registry for missing, duplicate or broken contracts
  check   Validate a captured response body against one contract
  export  Write the built-in registry to a file for editing
  help    Show this help message

Examples:
  contracts lint
  contracts lint -path configs/contracts.json
  contracts check -id recommendations.list -file testdata/recommendations.json
  contracts export -out configs/contracts.json

Use 'contracts <command> -h' for more information about a command.

`)
}
