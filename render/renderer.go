// Package render turns an allowed signal into a display payload with its
// two response actions.
package render

import (
	"fmt"
	"strings"

	"github.com/raykavin/signalcast/core"
)

// Badge texts for the compliance annotation
const (
	badgeCompliant    = "🟢 Compliant"
	badgeNonCompliant = "🔴 Non-compliant"
)

// Renderer formats signals into messages. Rendering never re-decides
// delivery; the compliance badge only annotates what the classifier says.
// It is pure with respect to its input: the same signal always yields the
// same payload, byte for byte.
type Renderer struct {
	classifier core.Classifier
}

// NewRenderer creates a renderer using the given compliance classifier for
// the crypto/memecoin badge
func NewRenderer(classifier core.Classifier) *Renderer {
	return &Renderer{classifier: classifier}
}

// Render produces the display text and the confirm/ignore actions for a
// signal. Missing optional fields render as the "not applicable"
// placeholder so the layout stays stable.
func (r *Renderer) Render(signal core.Signal) core.RenderedMessage {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🚨 New %s Signal\n", strings.ToUpper(string(signal.Market)))
	fmt.Fprintf(&sb, "Pair: %s\n", signal.Symbol)
	fmt.Fprintf(&sb, "Timeframe: %s\n", orPlaceholder(signal.Timeframe))
	fmt.Fprintf(&sb, "Direction: %s\n", strings.ToUpper(string(signal.Direction)))
	fmt.Fprintf(&sb, "Entry: %s\n", orPlaceholder(signal.Entry))
	fmt.Fprintf(&sb, "TP: %s\n", orPlaceholder(signal.Target))
	fmt.Fprintf(&sb, "SL: %s", orPlaceholder(signal.Stop))

	if badge := r.badge(signal); badge != "" {
		sb.WriteString("\n")
		sb.WriteString(badge)
	}

	return core.RenderedMessage{
		Text: sb.String(),
		Actions: [2]core.Action{
			{
				Kind:      core.ActionConfirm,
				SignalID:  signal.ID,
				Symbol:    signal.Symbol,
				Direction: signal.Direction,
			},
			{
				Kind:     core.ActionIgnore,
				SignalID: signal.ID,
			},
		},
	}
}

// badge returns the compliance annotation for crypto and memecoin signals,
// empty for everything else. An unavailable classifier annotates
// non-compliant, consistent with the filter's fail-closed policy.
func (r *Renderer) badge(signal core.Signal) string {
	if signal.Market != core.MarketCrypto && signal.Market != core.MarketMemecoins {
		return ""
	}

	verdict, err := r.classifier.Classify(signal.Symbol, signal.Description)
	if err != nil || verdict == core.NonCompliant {
		return badgeNonCompliant
	}

	return badgeCompliant
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return core.NotApplicable
	}
	return value
}
