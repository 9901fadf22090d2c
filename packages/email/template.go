package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
)

// Template 邮件模板
type Template struct {
	tmpl *template.Template
}

// NewTemplate 从 HTML 字符串创建模板
func NewTemplate(htmlContent string) (*Template, error) {
	tmpl, err := template.New("email").Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("解析邮件模板失败: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// Render 渲染模板
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return buf.String(), nil
}

// SendWithTemplate 使用模板发送邮件
func (c *Client) SendWithTemplate(ctx context.Context, to string, subject string, tmpl *Template, data any) error {
	body, err := tmpl.Render(data)
	if err != nil {
		return err
	}
	return c.SendHTML(ctx, to, subject, body)
}

// ReviewResultTemplate 审核结果通知模板
const ReviewResultTemplate = `
<!DOCTYPE html>
<html lang="ja">
<head><meta charset="UTF-8"></head>
<body style="margin:0;background:#f4f4f4;font-family:'Hiragino Sans','Noto Sans JP',sans-serif;color:#222;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0">
  <tr><td align="center" style="padding:24px 12px;">
    <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#fff;border-radius:6px;">
      <tr><td style="border-top:6px solid {{.Color}};padding:24px 28px 8px;">
        <h2 style="margin:0;font-size:20px;">{{.Headline}}</h2>
      </td></tr>
      <tr><td style="padding:8px 28px 24px;font-size:14px;line-height:1.8;">
        <p>{{.Username}} さん</p>
        <p>「{{.Title}}」の{{.Kind}}が審査されました：<strong>{{.Decision}}</strong></p>
        {{if .Feedback}}<p style="margin:16px 0;padding:10px 14px;background:#fafafa;border-left:3px solid {{.Color}};">{{.Feedback}}</p>{{end}}
        {{if .Link}}<p><a href="{{.Link}}" style="color:{{.Color}};">記事を確認する</a></p>{{end}}
      </td></tr>
    </table>
    <p style="font-size:11px;color:#999;">このメールは送信専用です。</p>
  </td></tr>
</table>
</body>
</html>
`

// ReviewResultData 审核结果模板数据
type ReviewResultData struct {
	Headline string
	Username string
	Title    string
	Kind     string // 記事 / 修正案
	Decision string
	Feedback string
	Link     string
	Color    string
}

var reviewResultTmpl = template.Must(template.New("review").Parse(ReviewResultTemplate))

// SendReviewResult 发送审核结果通知（便捷方法）
func (c *Client) SendReviewResult(ctx context.Context, to string, data ReviewResultData) error {
	if data.Color == "" {
		data.Color = "#2196F3"
	}
	return c.SendWithTemplate(ctx, to, "【聖地巡礼ガイド】"+data.Headline, &Template{tmpl: reviewResultTmpl}, data)
}
