package configs

import (
	"os"

	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"
)

// InitRollbar mengaktifkan pelaporan error hanya jika ROLLBAR_TOKEN diisi.
func InitRollbar() {
	if RollbarToken == "" {
		rollbar.SetEnabled(false)
		return
	}
	host, _ := os.Hostname()
	rollbar.SetToken(RollbarToken)
	rollbar.SetEnvironment(AppEnv)
	rollbar.SetServerHost(host)
	rollbar.SetEnabled(true)
	Log().Info("✅ rollbar enabled", zap.String("env", AppEnv))
}

// ReportError mengirim error ke rollbar (no-op saat disabled).
func ReportError(err error, extras map[string]interface{}) {
	if err == nil || RollbarToken == "" {
		return
	}
	rollbar.Error(err, extras)
}

func CloseRollbar() {
	if RollbarToken != "" {
		rollbar.Close()
	}
}
