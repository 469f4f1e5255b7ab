package main

import (
	"fmt"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/spf13/cobra"
)

func newParamsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect and validate statutory tax tables",
	}
	cmd.AddCommand(newParamsValidateCmd(configPath))
	return cmd
}

func newParamsValidateCmd(configPath *string) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the tax tables for a given year and report coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			if _, err := a.Params.GetCPP(year); err != nil {
				return fmt.Errorf("cpp: %w", err)
			}
			if _, err := a.Params.GetEI(year); err != nil {
				return fmt.Errorf("ei: %w", err)
			}
			for _, edition := range []domain.Edition{domain.EditionJan, domain.EditionJul} {
				key := domain.EditionKey{Year: year, Edition: edition}
				if _, err := a.Params.GetFederal(key); err != nil {
					return fmt.Errorf("federal %s: %w", edition, err)
				}
				for _, j := range domain.Jurisdictions {
					jkey := domain.EditionKey{Year: year, Edition: edition, Jurisdiction: j}
					if _, err := a.Params.GetJurisdiction(jkey); err != nil {
						return fmt.Errorf("jurisdiction %s %s: %w", j, edition, err)
					}
				}
			}
			fmt.Printf("tax tables for %d: OK (cpp, ei, federal jan/jul, %d jurisdictions x 2 editions)\n", year, len(domain.Jurisdictions))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "tax year to validate")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}
