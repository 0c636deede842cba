// Package template renders the transactional email bodies.
//
// 지원하는 변수 형식:
//
//	{{firstname}}, {{lastname}}, {{email}}, {{link}}, {{token}},
//	{{logo}}, {{supportLink}}, {{orderId}}, {{total}}, {{address}}, {{items}}
package template

import (
	"fmt"
	"html"
	"strings"
)

const (
	VerifyEmail         = "verify-email"
	PasswordReset       = "password-reset"
	RequestConfirmation = "request-confirmation"
	OrderConfirmation   = "order-confirmation"
)

// MailData - 템플릿 렌더링에 사용할 데이터 (없는 값은 빈 문자열로 치환)
type MailData struct {
	Firstname   string
	Lastname    string
	Email       string
	Link        string
	Token       string
	Logo        string
	SupportLink string
	OrderID     string
	Total       string
	Address     string
	Items       []MailItem
}

// MailItem - 주문 확인 메일의 상품 한 줄
type MailItem struct {
	Name     string
	Quantity int
	Price    string
}

var bodies = map[string]string{
	VerifyEmail: `<html><body>
<img src="{{logo}}" alt="Stcker" width="120"/>
<p>Hi {{firstname}} {{lastname}},</p>
<p>Thanks for signing up with {{email}}. Please confirm your email address to activate your account.</p>
<p><a href="{{link}}">Verify email address</a></p>
<p>The link expires in one hour. Need help? <a href="{{supportLink}}">Contact support</a>.</p>
</body></html>`,

	PasswordReset: `<html><body>
<img src="{{logo}}" alt="Stcker" width="120"/>
<p>Hi {{firstname}} {{lastname}},</p>
<p>We received a request to reset your password. Open <a href="{{link}}">{{link}}</a> and enter the code below.</p>
<pre>{{token}}</pre>
<p>The code expires in one hour. If you did not ask for this, ignore this email or <a href="{{supportLink}}">contact support</a>.</p>
</body></html>`,

	RequestConfirmation: `<html><body>
<img src="{{logo}}" alt="Stcker" width="120"/>
<p>We have received your request and will get back to you as soon as possible.</p>
</body></html>`,

	OrderConfirmation: `<html><body>
<img src="{{logo}}" alt="Stcker" width="120"/>
<p>Hi {{firstname}},</p>
<p>Thanks for your order. Your payment has been received and order {{orderId}} is on its way to the packing table.</p>
<table>
<tr><th align="left">Item</th><th>Qty</th><th align="right">Price</th></tr>
{{items}}
</table>
<p><strong>Total: {{total}}</strong></p>
<p>Shipping to: {{address}}</p>
<p>Questions about your order? <a href="{{supportLink}}">Contact support</a>.</p>
</body></html>`,
}

// Render - 이름에 해당하는 템플릿의 변수를 실제 값으로 치환
func Render(name string, data MailData) (string, error) {
	body, ok := bodies[name]
	if !ok {
		return "", fmt.Errorf("unknown mail template %q", name)
	}
	return RenderBody(body, data), nil
}

// RenderBody - 임의의 본문 템플릿에 변수 치환 (값은 모두 HTML 이스케이프)
func RenderBody(body string, data MailData) string {
	return strings.NewReplacer(
		"{{firstname}}", html.EscapeString(data.Firstname),
		"{{lastname}}", html.EscapeString(data.Lastname),
		"{{email}}", html.EscapeString(data.Email),
		"{{link}}", html.EscapeString(data.Link),
		"{{token}}", html.EscapeString(data.Token),
		"{{logo}}", html.EscapeString(data.Logo),
		"{{supportLink}}", html.EscapeString(data.SupportLink),
		"{{orderId}}", html.EscapeString(data.OrderID),
		"{{total}}", html.EscapeString(data.Total),
		"{{address}}", html.EscapeString(data.Address),
		"{{items}}", itemRows(data.Items),
	).Replace(body)
}

func itemRows(items []MailItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td align=\"center\">%d</td><td align=\"right\">%s</td></tr>\n",
			html.EscapeString(item.Name), item.Quantity, html.EscapeString(item.Price))
	}
	return b.String()
}
