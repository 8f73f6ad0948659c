package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://lexmart.dev/docs/errors/"

var registry = map[string]ErrorTemplate{
	// Config (E100-E199)

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No lexmart.json or lexmart.yaml was found in the working directory or any parent.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Config file could not be read",
		Detail:   "The config file exists but reading it failed.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Config file is malformed",
		Detail:   "The config file is not valid JSON or YAML.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid server setting",
		Detail:   "server.port must be between 1 and 65535 and timeouts must not be negative.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid upload setting",
		Detail:   "upload.store must be \"disk\" or \"s3\"; the s3 store needs a bucket and the disk store a directory.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid tooltip setting",
		Detail:   "tooltip.side must be one of top, bottom, left, right and tooltip.delay must not be negative.",
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Unsupported config format",
		Detail:   "Config files must end in .json, .yaml or .yml.",
	},

	// Upload (E200-E299)

	"E200": {
		Category: CategoryUpload,
		Message:  "No file in upload",
		Detail:   "The request did not carry a multipart field named \"file\".",
	},
	"E201": {
		Category: CategoryUpload,
		Message:  "Upload could not be spooled",
		Detail:   "The uploaded file could not be written to temporary storage.",
	},
	"E202": {
		Category: CategoryUpload,
		Message:  "Media store rejected upload",
		Detail:   "The media storage provider returned an error.",
	},
	"E203": {
		Category: CategoryUpload,
		Message:  "Media store unavailable",
		Detail:   "The media storage provider could not be configured.",
	},

	// Live (E300-E399)

	"E300": {
		Category: CategoryLive,
		Message:  "Malformed frame",
		Detail:   "A WebSocket frame could not be decoded as JSON.",
	},
	"E301": {
		Category: CategoryLive,
		Message:  "Unknown frame type",
		Detail:   "The frame type is not one of register, unregister, enter, leave, layout, measure.",
	},
	"E302": {
		Category: CategoryLive,
		Message:  "Unknown tooltip",
		Detail:   "The frame refers to a tooltip id that was never registered on this session.",
	},
	"E303": {
		Category: CategoryLive,
		Message:  "Too many tooltips",
		Detail:   "The session reached its tooltip limit.",
	},
	"E304": {
		Category: CategoryLive,
		Message:  "Session busy",
		Detail:   "The session event queue is full; the frame was dropped.",
	},

	// CLI (E400-E499)

	"E400": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
	},
	"E401": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
}

func init() {
	for code, t := range registry {
		if t.DocURL == "" {
			t.DocURL = docBase + code
			registry[code] = t
		}
	}
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
