// file: cmd/fba/plugins.go

package main

import (
	"fmt"

	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/plugins/authn"
	"github.com/eginner01/rFBA-sub002/internal/plugins/codegen"
	"github.com/eginner01/rFBA-sub002/internal/plugins/config"
	"github.com/eginner01/rFBA-sub002/internal/plugins/dict"
	"github.com/eginner01/rFBA-sub002/internal/plugins/email"
	"github.com/eginner01/rFBA-sub002/internal/plugins/file"
	"github.com/eginner01/rFBA-sub002/internal/plugins/logs"
	"github.com/eginner01/rFBA-sub002/internal/plugins/notice"
	"github.com/eginner01/rFBA-sub002/internal/plugins/oauth2"
	"github.com/eginner01/rFBA-sub002/internal/plugins/rbac"
	"github.com/eginner01/rFBA-sub002/internal/plugins/schedule"
)

// registry 是编译进二进制的全部插件，键为 Info().Name
var registry = map[string]func() port.Plugin{
	"auth":           func() port.Plugin { return authn.New() },
	"rbac":           func() port.Plugin { return rbac.New() },
	"notice":         func() port.Plugin { return notice.New() },
	"config":         func() port.Plugin { return config.New() },
	"dict":           func() port.Plugin { return dict.New() },
	"logs":           func() port.Plugin { return logs.New() },
	"file":           func() port.Plugin { return file.New() },
	"schedule_job":   func() port.Plugin { return schedule.New() },
	"code_generator": func() port.Plugin { return codegen.New() },
	"email":          func() port.Plugin { return email.New() },
	"oauth2":         func() port.Plugin { return oauth2.New() },
}

// buildPlugins 按配置顺序实例化插件，未知名称是启动错误
func buildPlugins(names []string) ([]port.Plugin, error) {
	out := make([]port.Plugin, 0, len(names))
	for _, name := range names {
		newPlugin, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("未知插件: %s", name)
		}
		out = append(out, newPlugin())
	}
	return out, nil
}

// waiter 是关闭前需要等待后台任务的插件，如 email
type waiter interface{ Wait() }

func waitPlugins(plugins []port.Plugin) {
	for _, p := range plugins {
		if w, ok := p.(waiter); ok {
			w.Wait()
		}
	}
}
