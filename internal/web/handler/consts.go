package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the path of a route group's index inside fiber.Router.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app, cfg, db or provider var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg, db or provider is nil"

	// MsgInternalServerError is shown when a form post fails for reasons the user cannot fix.
	MsgInternalServerError = "Something went wrong, please try again"
)
