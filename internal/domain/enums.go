package domain

// ReceiptStatus represents the review lifecycle of a receipt. Transitions are
// admin-driven and unconstrained in direction.
type ReceiptStatus string

const (
	StatusOpen     ReceiptStatus = "open"
	StatusInReview ReceiptStatus = "in_review"
	StatusClosed   ReceiptStatus = "closed"
)

// ValidReceiptStatuses enumerates all accepted status values.
var ValidReceiptStatuses = map[ReceiptStatus]bool{
	StatusOpen:     true,
	StatusInReview: true,
	StatusClosed:   true,
}

// UserRole defines the two-tier role model.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ValidUserRoles enumerates all accepted role values.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:  true,
	RoleMember: true,
}

// Audit action vocabulary. Action strings are free-form in storage but every
// writer uses one of these.
const (
	AuditReceiptCreated    = "ReceiptCreated"
	AuditStatusChanged     = "StatusChanged"
	AuditReceiptDeleted    = "ReceiptDeleted"
	AuditCommentAdded      = "ReceiptComment/ADD"
	AuditCommentDeleted    = "ReceiptComment/DELETE"
	AuditUserCreated       = "UserManagement/CREATE"
	AuditUserRoleChanged   = "UserManagement/UPDATE_ROLE"
	AuditUserDeleted       = "UserManagement/DELETE"
)

// Audit entity types.
const (
	EntityReceipt = "Receipt"
	EntityComment = "Comment"
	EntityUser    = "User"
)

// Input bounds for user-declared fields.
const (
	MaxDeclaredPrice = 999999.99
	MaxCommentLength = 2000
)

// FileType represents the allowed upload types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}
