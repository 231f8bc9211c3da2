package fastlane

// Test hooks (kept separate so instrumentation doesn't clutter logic).
var (
	// resizeHook is invoked after the lanes grew, with the element count
	// that triggered the resize.
	resizeHook func(elements int)
)
