package constants

// Common HTTP Headers
const (
	HTTPContentType = "Content-Type"
	HTTPAppJSON     = "application/json"
	HTTPAppForm     = "application/x-www-form-urlencoded"
)

// Environment Variable Keys
const (
	EnvServiceAccountFile = "SERVICE_ACCOUNT_FILE"
	EnvTokenURL           = "TOKEN_URL"
	EnvTokenScope         = "TOKEN_SCOPE"
	EnvTokenAudience      = "TOKEN_AUDIENCE"
	EnvTokenSubject       = "TOKEN_SUBJECT" // domain-wide delegation target, optional
	EnvTokenTimeout       = "TOKEN_TIMEOUT"
	EnvTokenStrict        = "TOKEN_STRICT"
	EnvSpreadsheetID      = "SPREADSHEET_ID"
	EnvSheetName          = "SHEET_NAME"
	EnvPort               = "PORT"

	DefaultServiceAccountFile = "service-account.json"
	DefaultPort               = "8080"
)
