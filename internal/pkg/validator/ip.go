package validator

import (
	"net"
	"strings"
)

// UnknownClient 无法识别客户端 IP 时使用的限流标识
const UnknownClient = "unknown"

// IsValidIP 验证 IP 地址格式（支持 IPv4 和 IPv6）
func IsValidIP(ip string) bool {
	if ip == "" {
		return false
	}
	return net.ParseIP(ip) != nil
}

// NormalizeIP 规范化 IP 地址
// 去掉 IPv6 zone (fe80::1%eth0 -> fe80::1)，IPv4-mapped 地址转为 IPv4
func NormalizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if idx := strings.IndexByte(ip, '%'); idx != -1 {
		ip = ip[:idx]
	}
	if parsed := net.ParseIP(ip); parsed != nil {
		if v4 := parsed.To4(); v4 != nil {
			return v4.String()
		}
		return parsed.String()
	}
	return ip
}

// ClientKey 返回用于限流 key 的客户端标识
func ClientKey(ip string) string {
	normalized := NormalizeIP(ip)
	if IsValidIP(normalized) {
		return normalized
	}
	return UnknownClient
}
