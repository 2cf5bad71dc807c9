package domain

// UserRole defines the role hierarchy within a business.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ValidRoles lists every assignable role.
var ValidRoles = map[UserRole]bool{
	RoleAdmin:  true,
	RoleMember: true,
}

// InvoiceStatus is the lifecycle of an invoice. Only issued invoices are
// reported; cancelled ones keep their number but drop out of returns.
type InvoiceStatus string

const (
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// ReportFormat names an export format.
type ReportFormat string

const (
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatCSV   ReportFormat = "csv"
	ReportFormatXLSX  ReportFormat = "xlsx"
	ReportFormatGSTR1 ReportFormat = "gstr1"
)

// ReportContentTypes maps export formats to their MIME type.
var ReportContentTypes = map[ReportFormat]string{
	ReportFormatJSON:  "application/json",
	ReportFormatCSV:   "text/csv; charset=utf-8",
	ReportFormatXLSX:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	ReportFormatGSTR1: "application/json",
}

// ReportExtensions maps export formats to file extensions (without dot).
var ReportExtensions = map[ReportFormat]string{
	ReportFormatJSON:  "json",
	ReportFormatCSV:   "csv",
	ReportFormatXLSX:  "xlsx",
	ReportFormatGSTR1: "json",
}
