// Package models holds the GORM persistence models. Domain types carry no
// storage tags; each model converts to and from its domain counterpart.
package models

// AllModels returns every model in dependency order, for AutoMigrate in tests
// and development
func AllModels() []any {
	return []any{
		&CompanyModel{},
		&CategoryModel{},
		&ProductModel{},
		&CustomerModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&ReturnSequenceModel{},
		&ReturnModel{},
		&ReturnItemModel{},
		&PaymentModel{},
		&CustomerBalanceModel{},
	}
}
