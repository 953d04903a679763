package preflight

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pilebones/go-udev/netlink"
	"golang.org/x/sys/unix"
)

// CheckNtfy verifies that the ntfy server behind the topic URL is healthy.
func CheckNtfy(ctx context.Context, topicURL string) Result {
	const name = "ntfy"

	topic := strings.TrimSpace(topicURL)
	if topic == "" {
		return Result{Name: name, Detail: "missing topic"}
	}
	parsed, err := url.Parse(topic)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Result{Name: name, Detail: fmt.Sprintf("invalid topic url %q", topic)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health := parsed.Scheme + "://" + parsed.Host + "/v1/health"
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, health, nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%v)", err)}
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("health check failed (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckTelegram verifies the Telegram settings are present. It does not
// contact the API.
func CheckTelegram(token string, chatID int64) Result {
	const name = "Telegram"
	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Detail: "missing bot token"}
	}
	if chatID == 0 {
		return Result{Name: name, Detail: "missing chat id"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("chat %d", chatID)}
}

// CheckNetlink verifies that a udev netlink socket can be opened.
func CheckNetlink() Result {
	const name = "Netlink"
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot open udev socket (%v)", err)}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: "udev socket available"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
