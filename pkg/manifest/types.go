package manifest

// HandlerType enumerates the supported handler kinds.
type HandlerType string

const (
	HandlerInproc    HandlerType = "inproc"
	HandlerWhoami    HandlerType = "whoami"
	HandlerLogin     HandlerType = "login"
	HandlerLogout    HandlerType = "logout"
	HandlerPublicKey HandlerType = "public-key"
)
