package main

import (
	"fmt"

	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage companies",
}

var companyCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a company",
	Example: `  stocklyctl company create --name "Al Noor Trading" --code NOOR
  stocklyctl company create --name "Demo" --code DEMO --phone "+963 944 123 456"`,
	RunE: runCompanyCreate,
}

func init() {
	companyCreateCmd.Flags().String("name", "", "Company name")
	companyCreateCmd.Flags().String("code", "", "Unique company code (A-Z, 0-9, _ and -)")
	companyCreateCmd.Flags().String("phone", "", "Contact phone")
	_ = companyCreateCmd.MarkFlagRequired("name")
	_ = companyCreateCmd.MarkFlagRequired("code")

	companyCmd.AddCommand(companyCreateCmd)
	rootCmd.AddCommand(companyCmd)
}

func runCompanyCreate(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	code, _ := cmd.Flags().GetString("code")
	phone, _ := cmd.Flags().GetString("phone")

	company, err := identity.NewCompany(name, code)
	if err != nil {
		return err
	}
	if phone != "" {
		company.SetPhone(partner.NormalizePhone(phone, state.cfg.App.PhoneRegion))
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	repo := persistence.NewGormCompanyRepository(db.DB)
	exists, err := repo.ExistsByCode(ctx, company.Code)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("company code %s is already taken", company.Code))
	}
	if err := repo.Save(ctx, company); err != nil {
		return err
	}

	state.log.Info("Company created",
		zap.String("company_id", company.ID.String()),
		zap.String("code", company.Code),
	)
	fmt.Fprintln(cmd.OutOrStdout(), company.ID.String())
	return nil
}
