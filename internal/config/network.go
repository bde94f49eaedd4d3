package config

import (
	"fmt"
	"net"
)

// interfaceAddrs はテストで差し替えられるように変数にしている
var interfaceAddrs = net.InterfaceAddrs

// NetworkURL は同じLANの他の端末からアクセスするためのURLを返す
// 全インターフェースで待ち受けていない場合や、LANのIPv4アドレスが無い場合は空文字を返す
func (c *Config) NetworkURL() string {
	switch c.Server.Host {
	case "", "0.0.0.0", "::":
	default:
		return ""
	}

	ip := localIPv4()
	if ip == "" {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", ip, c.Server.Port)
}

// localIPv4 はループバック以外の最初のIPv4アドレスを返す
func localIPv4() string {
	addrs, err := interfaceAddrs()
	if err != nil {
		return ""
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() || ipNet.IP.IsLinkLocalUnicast() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}
