package domain

type DeliveryOutcome string

const (
	OutcomeHandedOff         DeliveryOutcome = "handed_off"
	OutcomeClipboardFallback DeliveryOutcome = "clipboard_fallback"
)

// String returns a human-readable label
func (o DeliveryOutcome) String() string {
	switch o {
	case OutcomeHandedOff:
		return "Opened in WhatsApp"
	case OutcomeClipboardFallback:
		return "Copied to clipboard"
	default:
		return string(o)
	}
}
