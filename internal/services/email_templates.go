package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/example/mrzion/internal/models"
)

// BookLink is one distribution channel for a purchased book.
type BookLink struct {
	Label string
	URL   string
}

// ConfirmationData is everything a confirmation email may reference.
// Which fields are set depends on the payment type.
type ConfirmationData struct {
	FullName    string
	ItemName    string
	AccessCode  string
	CourseLink  string
	BookLinks   []BookLink
	SupportMail string
	Year        int
}

type emailTemplate struct {
	fromName string
	subject  string
	text     *texttemplate.Template
	html     *htmltemplate.Template
}

const htmlLayoutStart = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#f4f8f4;">
<table align="center" width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;background-color:#ffffff;border-radius:10px;overflow:hidden;">
`

const htmlLayoutEnd = `<tr><td style="padding:20px;background-color:#f6f6f6;text-align:center;font-size:13px;color:#777;">
For any questions, contact <a href="mailto:{{.SupportMail}}" style="color:#2563eb;">{{.SupportMail}}</a><br><br>
&copy; {{.Year}} MrZion. All rights reserved.
</td></tr>
</table>
</body>
</html>
`

var confirmationTemplates = map[models.PaymentType]emailTemplate{
	models.PaymentTypeCourse: {
		fromName: "MrZion Courses",
		subject:  "Payment Confirmed for %s 🎉",
		text: texttemplate.Must(texttemplate.New("course").Parse(`Hi {{.FullName}},

Your payment for "{{.ItemName}}" has been confirmed successfully.

Here are your access details:
Access Code: {{.AccessCode}}
Course Link: {{.CourseLink}}

You can now begin your course and start learning right away!

Thank you for choosing MrZion.
`)),
		html: htmltemplate.Must(htmltemplate.New("course").Parse(htmlLayoutStart + `<tr><td style="background-color:#2563eb;padding:25px;text-align:center;color:#fff;font-size:28px;font-weight:bold;">MrZion Courses</td></tr>
<tr><td style="padding:40px 30px;text-align:center;color:#333;">
<h2 style="color:#2563eb;">Payment Successful 🎉</h2>
<p style="font-size:16px;">Hi {{.FullName}},</p>
<p style="font-size:16px;">Your payment for <strong>{{.ItemName}}</strong> has been successfully confirmed.</p>
<div style="margin:25px 0;background-color:#f4f8f4;border-radius:8px;padding:20px;">
<p><strong>Access Code:</strong> <span style="font-size:18px;font-weight:bold;color:#2563eb;">{{.AccessCode}}</span></p>
<p><strong>Course Link:</strong> <a href="{{.CourseLink}}" style="color:#2563eb;">{{.CourseLink}}</a></p>
</div>
<a href="{{.CourseLink}}" style="display:inline-block;margin-top:25px;background-color:#2563eb;color:#fff;text-decoration:none;padding:14px 32px;border-radius:6px;font-weight:bold;">Access Your Course</a>
</td></tr>
` + htmlLayoutEnd)),
	},
	models.PaymentTypeBook: {
		fromName: "MrZion Store",
		subject:  "Payment Confirmed for %s 📚",
		text: texttemplate.Must(texttemplate.New("book").Parse(`Hi {{.FullName}},

Your payment for "{{.ItemName}}" has been confirmed successfully.

Here are your book access links:
{{range .BookLinks}}{{.Label}}: {{.URL}}
{{end}}
Thank you for choosing MrZion.
`)),
		html: htmltemplate.Must(htmltemplate.New("book").Parse(htmlLayoutStart + `<tr><td style="background-color:#2563eb;padding:25px;text-align:center;color:#fff;font-size:28px;font-weight:bold;">MrZion Store</td></tr>
<tr><td style="padding:40px 30px;text-align:center;color:#333;">
<h2 style="color:#2563eb;">Payment Successful 📚</h2>
<p style="font-size:16px;">Hi {{.FullName}},</p>
<p style="font-size:16px;">Your payment for <strong>{{.ItemName}}</strong> has been confirmed.</p>
<p style="font-size:16px;">Here are your book links:</p>
{{range .BookLinks}}<p><strong>{{.Label}}:</strong> <a href="{{.URL}}" style="color:#2563eb;">{{.URL}}</a></p>
{{end}}<p style="margin-top:30px;">Enjoy your reading, and thank you for supporting <strong>MrZion</strong>!</p>
</td></tr>
` + htmlLayoutEnd)),
	},
	models.PaymentTypeService: {
		fromName: "MrZion Services",
		subject:  "Service Payment Received - %s",
		text: texttemplate.Must(texttemplate.New("service").Parse(`Hi {{.FullName}},

Your payment for the service "{{.ItemName}}" has been received successfully.

Our team will contact you shortly to proceed with the next steps.

Thank you for choosing MrZion.
`)),
		html: htmltemplate.Must(htmltemplate.New("service").Parse(htmlLayoutStart + `<tr><td style="background-color:#2563eb;padding:25px;text-align:center;color:#fff;font-size:28px;font-weight:bold;">MrZion Services</td></tr>
<tr><td style="padding:40px 30px;text-align:center;color:#333;">
<h2 style="color:#2563eb;">Payment Received 💼</h2>
<p style="font-size:16px;">Hi {{.FullName}},</p>
<p style="font-size:16px;">We have received your payment for the service <strong>{{.ItemName}}</strong>.</p>
<p style="font-size:16px;">Our team will reach out to you shortly to proceed with your request.</p>
<p style="margin-top:30px;">Thank you for trusting <strong>MrZion</strong>!</p>
</td></tr>
` + htmlLayoutEnd)),
	},
}

// RenderConfirmation builds the confirmation email for a payment type.
func RenderConfirmation(paymentType models.PaymentType, to string, data ConfirmationData) (Email, error) {
	tmpl, ok := confirmationTemplates[paymentType]
	if !ok {
		return Email{}, fmt.Errorf("%w: %q", ErrInvalidPaymentType, paymentType)
	}

	var text bytes.Buffer
	if err := tmpl.text.Execute(&text, data); err != nil {
		return Email{}, err
	}
	var html bytes.Buffer
	if err := tmpl.html.Execute(&html, data); err != nil {
		return Email{}, err
	}

	return Email{
		To:       to,
		Subject:  fmt.Sprintf(tmpl.subject, data.ItemName),
		Text:     strings.TrimSpace(text.String()) + "\n",
		HTML:     html.String(),
		FromName: tmpl.fromName,
	}, nil
}
