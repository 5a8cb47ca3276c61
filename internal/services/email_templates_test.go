package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/services"
)

func TestRenderConfirmation_EscapesHTML(t *testing.T) {
	email, err := services.RenderConfirmation(models.PaymentTypeService, "a@b.com", services.ConfirmationData{
		FullName: "<script>alert(1)</script>",
		ItemName: "Audit & Review",
		Year:     2025,
	})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", email.To)
	assert.Equal(t, "Service Payment Received - Audit & Review", email.Subject)
	assert.Contains(t, email.Text, "Hi <script>alert(1)</script>,")
	assert.NotContains(t, email.HTML, "<script>")
	assert.Contains(t, email.HTML, "Audit &amp; Review")
	assert.Contains(t, email.HTML, "&copy; 2025 MrZion")
}

func TestRenderConfirmation_UnknownType(t *testing.T) {
	_, err := services.RenderConfirmation(models.PaymentType("donation"), "a@b.com", services.ConfirmationData{})
	assert.ErrorIs(t, err, services.ErrInvalidPaymentType)
}
