// file: internal/auditlog/useragent.go
package auditlog

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknown = "Unknown"

// Client 是从 User-Agent 中解析出的客户端信息
type Client struct {
	OS      string
	Browser string
	Device  string
}

// ParseUserAgent 解析 UA 字符串，无法识别的部分记为 Unknown
func ParseUserAgent(raw string) Client {
	if strings.TrimSpace(raw) == "" {
		return Client{OS: unknown, Browser: unknown, Device: unknown}
	}
	ua := useragent.New(raw)

	c := Client{OS: ua.OS(), Device: "PC"}
	if c.OS == "" {
		c.OS = unknown
	}
	name, version := ua.Browser()
	switch {
	case name == "":
		c.Browser = unknown
	case version == "":
		c.Browser = name
	default:
		c.Browser = name + " " + version
	}
	switch {
	case ua.Bot():
		c.Device = "Bot"
	case ua.Mobile():
		c.Device = "Mobile"
		if p := ua.Platform(); p != "" {
			c.Device = p
		}
	}
	return c
}
