package orders

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gopalmandloi007/tradedeck/internal/models"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		name  string
		order models.Order
		want  models.OrderStatus
	}{
		{
			name:  "fully filled",
			order: models.Order{Quantity: 10, FilledQty: 10, RemainingQty: 0, RawStatus: "2"},
			want:  models.StatusCompleted,
		},
		{
			name:  "partially filled overrides raw open",
			order: models.Order{Quantity: 10, FilledQty: 5, RemainingQty: 5, RawStatus: "OPEN"},
			want:  models.StatusPartiallyFilled,
		},
		{
			name:  "untouched with quantity outstanding",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 10, RawStatus: "OPEN"},
			want:  models.StatusPending,
		},
		{
			name:  "fills trump a cancelled word when quantity remains",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 10, RawStatus: "CANCELLED"},
			want:  models.StatusPending,
		},
		{
			name:  "cancelled with nothing outstanding",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 0, RawStatus: "CANCELLED"},
			want:  models.StatusCancelled,
		},
		{
			name:  "american spelling",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 0, RawStatus: "CANCELED"},
			want:  models.StatusCancelled,
		},
		{
			name:  "rejected",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 0, RawStatus: "REJECTED"},
			want:  models.StatusRejected,
		},
		{
			name:  "expired",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 0, RawStatus: "EXPIRED"},
			want:  models.StatusExpired,
		},
		{
			name:  "trigger pending",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 0, RawStatus: "TRIGGER_PENDING"},
			want:  models.StatusTriggerPending,
		},
		{
			name:  "replaced reads as open",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 0, RawStatus: "REPLACED"},
			want:  models.StatusOpen,
		},
		{
			name:  "complete word without fill figures",
			order: models.Order{Quantity: 0, FilledQty: 0, RemainingQty: 0, RawStatus: "COMPLETE"},
			want:  models.StatusCompleted,
		},
		{
			name:  "zero quantity never reads completed from fills",
			order: models.Order{Quantity: 0, FilledQty: 0, RemainingQty: 0, RawStatus: "9"},
			want:  models.StatusUnknown,
		},
		{
			name:  "unrecognized word",
			order: models.Order{Quantity: 10, FilledQty: 0, RemainingQty: 0, RawStatus: "FROZEN"},
			want:  models.StatusUnknown,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NormalizeStatus(c.order); got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

// Property: fill arithmetic alone decides the status whenever one of the
// fill-based conditions holds, regardless of the raw word.
func TestProperty_FillClassificationBeatsRawWord(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	rawWordGen := gen.OneConstOf("OPEN", "CANCELLED", "REJECTED", "EXPIRED", "TRIGGER_PENDING", "FROZEN", "2")

	properties.Property("status follows fills", prop.ForAll(
		func(qty, filled int, raw string) bool {
			if filled > qty {
				filled = qty
			}
			o := models.Order{
				Quantity:     qty,
				FilledQty:    filled,
				RemainingQty: qty - filled,
				RawStatus:    raw,
			}
			got := NormalizeStatus(o)

			switch {
			case qty > 0 && filled == qty:
				return got == models.StatusCompleted
			case filled > 0 && filled < qty:
				return got == models.StatusPartiallyFilled
			case qty-filled > 0 && filled == 0:
				return got == models.StatusPending
			default:
				// No fill rule applies; any canonical value is acceptable
				// here, the table test pins the word mapping.
				return true
			}
		},
		gen.IntRange(1, 1000),
		gen.IntRange(0, 1000),
		rawWordGen,
	))

	properties.TestingRun(t)
}
