package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/pkg/jwt"
)

func (c *cli) extractCmd() *cobra.Command {
	var pdfDir, output string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extrae facturas de los documentos de un directorio a JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices, err := c.extractUseCase().ExtractDir(cmd.Context(), pdfDir)
			if err != nil {
				return err
			}
			if err := writeJSON(output, invoices); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Extracted %d invoices to %s\n", len(invoices), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "directorio con los documentos de factura")
	cmd.Flags().StringVar(&output, "output", "extracted_invoices.json", "archivo JSON de salida")
	_ = cmd.MarkFlagRequired("pdf-dir")
	return cmd
}

// reportOptions salidas comunes de validate y full-run.
type reportOptions struct {
	report        string
	pdfReport     string
	xlsxReport    string
	store         bool
	failOnInvalid bool
}

func (o *reportOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.report, "report", "validation_report.json", "archivo JSON del informe")
	cmd.Flags().StringVar(&o.pdfReport, "pdf-report", "", "además, informe en PDF")
	cmd.Flags().StringVar(&o.xlsxReport, "xlsx-report", "", "además, informe en XLSX")
	cmd.Flags().BoolVar(&o.store, "store", false, "guardar la corrida en PostgreSQL")
	cmd.Flags().BoolVar(&o.failOnInvalid, "fail-on-invalid", false, "salir con código 1 si hay facturas inválidas")
}

func (c *cli) validateCmd() *cobra.Command {
	var input string
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Valida un archivo JSON de facturas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.validateUseCase(cmd.Context(), opts.store)
			if err != nil {
				return err
			}
			invoices, err := uc.LoadInvoicesFile(input)
			if errors.Is(err, domain.ErrNotFound) {
				return userMessage("Input file not found: " + input)
			}
			if err != nil {
				return err
			}
			vr, err := uc.Validate(cmd.Context(), input, invoices)
			if err != nil {
				return err
			}
			if err := c.writeReports(cmd, vr, opts); err != nil {
				return err
			}
			printSummary(c.out, "", vr.Report.Summary, true)
			return checkFailOnInvalid(opts, vr)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "archivo JSON de facturas")
	_ = cmd.MarkFlagRequired("input")
	opts.bind(cmd)
	return cmd
}

func (c *cli) fullRunCmd() *cobra.Command {
	var pdfDir, tempOutput string
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "full-run",
		Short: "Extrae y valida en un solo paso",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices, err := c.extractUseCase().ExtractDir(cmd.Context(), pdfDir)
			if err != nil {
				return err
			}
			if tempOutput != "" {
				if err := writeJSON(tempOutput, invoices); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Extracted %d invoices to %s\n", len(invoices), tempOutput)
			}

			uc, err := c.validateUseCase(cmd.Context(), opts.store)
			if err != nil {
				return err
			}
			vr, err := uc.Validate(cmd.Context(), pdfDir, invoices)
			if err != nil {
				return err
			}
			if err := c.writeReports(cmd, vr, opts); err != nil {
				return err
			}
			printSummary(c.out, "[FULL RUN] ", vr.Report.Summary, false)
			return checkFailOnInvalid(opts, vr)
		},
	}
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "directorio con los documentos de factura")
	cmd.Flags().StringVar(&tempOutput, "temp-output", "", "archivo JSON intermedio con las facturas extraídas")
	_ = cmd.MarkFlagRequired("pdf-dir")
	opts.bind(cmd)
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	var subject string
	var minutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token Bearer para POST /validate-json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exp := c.cfg.JWT.Expiration
			if minutes > 0 {
				exp = minutes
			}
			tok, err := jwt.Generate(c.cfg.JWT.Secret, subject, jwt.ScopeValidate, c.cfg.JWT.Issuer, exp)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, tok)
			c.log.Info().Str("subject", subject).Str("expires_in", (time.Duration(exp) * time.Minute).String()).Msg("token emitido")
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "identificador del cliente de la API")
	cmd.Flags().IntVar(&minutes, "expires", 0, "minutos de validez (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// writeReports escribe el informe JSON y las exportaciones pedidas.
func (c *cli) writeReports(cmd *cobra.Command, vr *entity.ValidationRun, opts reportOptions) error {
	if err := writeJSON(opts.report, vr.Report); err != nil {
		return err
	}
	if opts.pdfReport == "" && opts.xlsxReport == "" {
		return nil
	}
	export := c.exportUseCase()
	if opts.pdfReport != "" {
		b, _, err := export.RenderPDF(cmd.Context(), vr)
		if err != nil {
			return err
		}
		if err := writeFile(opts.pdfReport, b); err != nil {
			return err
		}
	}
	if opts.xlsxReport != "" {
		b, _, err := export.RenderXLSX(cmd.Context(), vr)
		if err != nil {
			return err
		}
		if err := writeFile(opts.xlsxReport, b); err != nil {
			return err
		}
	}
	return nil
}

func checkFailOnInvalid(opts reportOptions, vr *entity.ValidationRun) error {
	if opts.failOnInvalid && vr.Report.Summary.InvalidInvoices > 0 {
		return errInvalidRecords
	}
	return nil
}
