package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

type options struct {
	hours    uint
	rate     uint
	location string
	rules    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "taxcalc",
		Short: "Compute gross pay, deductions and net pay",
		Long: "taxcalc works out an employee's payslip from hours worked, hourly rate and location.\n" +
			"Values not given as flags are asked for on the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts)
		},
	}

	cmd.Flags().UintVar(&opts.hours, "hours", 0, "hours worked")
	cmd.Flags().UintVar(&opts.rate, "rate", 0, "hourly rate")
	cmd.Flags().StringVar(&opts.location, "location", "", "employee location, e.g. Ireland")
	cmd.PersistentFlags().StringVar(&opts.rules, "rules", "", "rule book (.json, .yaml or XML directory); built-in rules if empty")

	cmd.AddCommand(newLocationsCmd(opts))
	return cmd
}

func newLocationsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the locations the rule book covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := openRules(opts.rules)
			if err != nil {
				return err
			}
			locations, err := table.ListLocations(cmd.Context())
			if err != nil {
				return err
			}

			r := newRenderer(cmd.OutOrStdout())
			for _, loc := range locations {
				currency, err := table.GetCurrency(cmd.Context(), loc)
				if err != nil {
					return err
				}
				r.location(loc, currency)
			}
			return nil
		},
	}
}

func runCalculate(cmd *cobra.Command, opts *options) error {
	p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
	flags := cmd.Flags()

	hours, rate, location := opts.hours, opts.rate, opts.location
	var err error
	if !flags.Changed("hours") {
		if hours, err = p.number("Please enter the hours worked: "); err != nil {
			return err
		}
	}
	if !flags.Changed("rate") {
		if rate, err = p.number("Please enter the hourly rate: "); err != nil {
			return err
		}
	}
	if !flags.Changed("location") {
		if location, err = p.line("Please enter the employee's location: "); err != nil {
			return err
		}
	}

	table, err := openRules(opts.rules)
	if err != nil {
		return err
	}

	calc := payroll.NewTaxCalculator(payroll.NewTableRuleSource(table))
	slip, err := payroll.NewPayslipService(table, calc).Calculate(cmd.Context(), hours, rate, payroll.Location{Name: location})
	if err != nil {
		return err
	}

	newRenderer(cmd.OutOrStdout()).payslip(slip)
	return nil
}

func openRules(path string) (*store.Memory, error) {
	book, err := factory.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	return store.NewMemoryFromBook(book)
}

// prompter reads answers line by line from the terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) line(question string) (string, error) {
	fmt.Fprint(p.out, question)
	s, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", fmt.Errorf("wrong input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) number(question string) (uint, error) {
	s, err := p.line(question)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("wrong input %q: expected a whole number", s)
	}
	return uint(n), nil
}
