package main

import (
	"fmt"
	"os"
)

const examplePartsCSV = `label,width,height,quantity,material,grain
Shelf,600,300,4,Plywood18,none
Side Panel,720,300,2,Plywood18,vertical
Back Panel,720,580,1,Plywood18,none
Door,350,580,2,Plywood18,vertical
`

func runExample(args []string) error {
	fs := newFlagSet("example")
	outPath := fs.String("out", "parts.csv", "path to write the sample cut list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.WriteFile(*outPath, []byte(examplePartsCSV), 0644); err != nil {
		return fmt.Errorf("write example cut list: %w", err)
	}
	fmt.Printf("wrote sample cut list to %s\n", *outPath)
	fmt.Println(`try it with:
  cutstock optimize -parts ` + *outPath + ` -stock 2440x1220x5xPlywood18 -out result.json`)
	return nil
}
