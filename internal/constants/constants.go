package constants

import "time"

const (
	// ContextKeyUserID is used both as the session key and the gin context key.
	ContextKeyUserID = "user_id"
	// ContextKeyIssue holds the issue loaded by RequireIssueOwner.
	ContextKeyIssue = "issue"

	SessionCookieName = "bug_journal_session"
	SessionMaxAge     = 86400 * 7

	MinPasswordLength = 6
	MinUsernameLength = 3

	// DateLayout is the storage and path format of Issue.Date.
	DateLayout = "2006-01-02"

	UploadFormField = "file"
	FileURLPrefix   = "/api/files/"

	SummaryMaxLength = 150

	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 30 * time.Minute
)
