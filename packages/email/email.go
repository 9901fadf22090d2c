package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Config 邮件服务配置
type Config struct {
	Host     string        `koanf:"host"`     // SMTP 服务器地址，如 smtp.gmail.com
	Port     int           `koanf:"port"`     // SMTP 端口，通常 587 (STARTTLS)
	Username string        `koanf:"username"` // 发件人邮箱
	Password string        `koanf:"password"` // 邮箱密码或授权码
	UseTLS   bool          `koanf:"tls"`      // 是否使用 STARTTLS
	From     string        `koanf:"from"`     // 默认发件人，如 "Seichi Guide <noreply@example.com>"
	Timeout  time.Duration `koanf:"timeout"`  // 单次发送的超时，如 10s
}

// Message 邮件消息
type Message struct {
	From        string   // 发件人，为空时使用 Config.From
	To          []string // 收件人列表
	Cc          []string // 抄送列表
	Subject     string   // 邮件主题
	Body        string   // 邮件正文（纯文本或 HTML）
	ContentType string   // 内容类型，默认 "text/plain"
}

// Client 邮件客户端
type Client struct {
	config *Config
}

// NewClient 创建邮件客户端
func NewClient(config *Config) *Client {
	if config.Port == 0 {
		config.Port = 587
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	return &Client{config: config}
}

// Enabled 未配置 SMTP 主机时不发送邮件
func (c *Client) Enabled() bool {
	return c != nil && c.config.Host != ""
}

// Send 发送邮件，整个 SMTP 会话受 ctx 与 Config.Timeout 约束
func (c *Client) Send(ctx context.Context, msg *Message) error {
	if msg.From == "" {
		msg.From = c.config.From
	}
	if msg.From == "" {
		return fmt.Errorf("发件人不能为空")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("收件人不能为空")
	}
	if msg.Subject == "" {
		return fmt.Errorf("邮件主题不能为空")
	}
	if msg.ContentType == "" {
		msg.ContentType = "text/plain; charset=UTF-8"
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	recipients := append([]string{}, msg.To...)
	recipients = append(recipients, msg.Cc...)

	return c.deliver(ctx, envelopeAddress(msg.From), recipients, buildMessage(msg))
}

// buildMessage 组装邮件头与正文
func buildMessage(msg *Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	if len(msg.Cc) > 0 {
		b.WriteString("Cc: " + strings.Join(msg.Cc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: " + msg.ContentType + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// envelopeAddress 从 "Name <addr>" 中取出信封地址
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}

func (c *Client) deliver(ctx context.Context, from string, to []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	dialer := &net.Dialer{Timeout: c.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("连接 SMTP 服务器失败: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("创建 SMTP 会话失败: %w", err)
	}
	defer client.Close()

	// 发送 STARTTLS 命令
	if c.config.UseTLS || c.config.Port == 587 {
		if err = client.StartTLS(&tls.Config{ServerName: c.config.Host}); err != nil {
			return fmt.Errorf("启动 TLS 失败: %w", err)
		}
	}

	if c.config.Username != "" {
		auth := smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP 认证失败: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("设置发件人失败: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("设置收件人失败: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("准备发送邮件内容失败: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("写入邮件内容失败: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("关闭邮件内容写入失败: %w", err)
	}

	return client.Quit()
}

// SendHTML 发送 HTML 邮件（便捷方法）
func (c *Client) SendHTML(ctx context.Context, to string, subject string, htmlBody string) error {
	return c.Send(ctx, &Message{
		To:          []string{to},
		Subject:     subject,
		Body:        htmlBody,
		ContentType: "text/html; charset=UTF-8",
	})
}
