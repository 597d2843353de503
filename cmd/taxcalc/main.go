// Command taxcalc is the console payroll calculator.
//
//	taxcalc --hours 160 --rate 10 --location Ireland
//	taxcalc --rules ./rules.yaml locations
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
