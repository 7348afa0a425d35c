package messaging

const (
	// StreamSubjects matches every subject published by the storefront.
	StreamSubjects = "storefront.>"

	UsersRegisteredSubject  = "storefront.users.registered"
	ContactSubmittedSubject = "storefront.contact.submitted"
)
