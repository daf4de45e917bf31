package main

import (
	"fmt"

	"github.com/piwi3910/cutstock/internal/calcapi"
	"github.com/piwi3910/cutstock/internal/validate"
)

func runValidate(args []string) error {
	fs := newFlagSet("validate")
	partsPath := fs.String("parts", "", "cut-list file (.csv, .json, or .xlsx)")
	var stocks stockFlag
	fs.Var(&stocks, "stock", `stock sheet, repeatable: "WIDTHxHEIGHT[xQTY[xMATERIAL]]" (optional; enables full request validation)`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *partsPath == "" {
		return fmt.Errorf("-parts is required")
	}

	parts, err := importParts(*partsPath)
	if err != nil {
		return err
	}
	fmt.Printf("parsed %d part(s) from %s\n", len(parts), *partsPath)

	if len(stocks) == 0 {
		fmt.Println("no -stock given; skipping full request validation")
		return nil
	}

	req := calcapi.CalculationRequest{
		Client: calcapi.ClientInfo{ID: "cutstock-cli"},
		Parts:  parts,
		Stocks: stocks,
	}
	result, err := validate.Validate(req)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Printf("valid: %d part(s), %d stock panel(s), scale=%d\n", len(result.Parts), len(result.Stocks), result.Scale)
	if len(result.NoMaterial) > 0 {
		fmt.Printf("warning: %d part(s) have no matching stock material\n", len(result.NoMaterial))
	}
	return nil
}
