package inventory_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/telas-api/internal/domain/inventory"
)

func TestTimeRollNumbers_Formato(t *testing.T) {
	g := inventory.NewTimeRollNumbers("R")
	g.Now = func() time.Time { return time.Date(2026, 1, 16, 14, 30, 5, 0, time.UTC) }

	assert.Regexp(t, regexp.MustCompile(`^R260116-143005-\d{2}$`), g.Next(false))
	assert.Regexp(t, regexp.MustCompile(`^R260116-143005-\d{4}$`), g.Next(true))
}
