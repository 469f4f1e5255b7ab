package main

import (
	"net/http"

	"github.com/cra-payroll/payroll-engine/internal/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var corsOrigins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			router := httpapi.NewRouter(a.Lifecycle, corsOrigins)
			return http.ListenAndServe(a.Config.HTTPAddr, router)
		},
	}
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", []string{"*"}, "allowed CORS origins")
	return cmd
}
