package tui

// i18n provides the screen texts in the supported locales:
// "zh" (Chinese, default) and "en" (English).

var currentLocale = "zh"

// SetLocale changes the active locale. Unknown locales are ignored.
func SetLocale(locale string) {
	if _, ok := locales[locale]; ok {
		currentLocale = locale
	}
}

// CurrentLocale returns the active locale code.
func CurrentLocale() string {
	return currentLocale
}

// ToggleLocale switches between zh and en.
func ToggleLocale() {
	if currentLocale == "zh" {
		currentLocale = "en"
	} else {
		currentLocale = "zh"
	}
}

// T returns the translated string for the given key.
func T(key string) string {
	if m, ok := locales[currentLocale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	// Fallback to English
	if m, ok := locales["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

var locales = map[string]map[string]string{
	"zh": zhStrings,
	"en": enStrings,
}

var zhStrings = map[string]string{
	"title":            "🔐 TYSS 阿里云盘授权",
	"auth_url":         "  授权链接:",
	"redirect_uri":     "  回调地址: %s",
	"waiting":          "正在等待浏览器回调...",
	"existing_file":    "已存在 drive.json, 授权成功后将被覆盖。",
	"browser_hint":     "  浏览器未自动打开时, 请复制上方链接手动访问。",
	"help_waiting":     "  [o] 打开浏览器 • [c] 复制链接 • [p] 粘贴回调 URL • [L] 语言 • [q] 退出",
	"help_paste":       "  [Enter] 提交 • [Esc] 返回",
	"help_done":        "  [Enter] 退出",
	"callback_url":     "  回调 URL: ",
	"paste_hint":       "  无法访问本机回调时, 可将浏览器地址栏中的完整地址粘贴到此处。",
	"submitting":       "⏳ 提交回调中...",
	"submit_fail":      "✗ 提交回调失败: %s",
	"copied":           "✓ 链接已复制到剪贴板",
	"copy_fail":        "✗ 复制失败: %s",
	"opened":           "✓ 已在浏览器中打开",
	"open_fail":        "✗ 打开浏览器失败: %s",
	"saved_to":         "  文件位置: %s",
	"save_failed":      "✗ 授权码已收到, 但保存 drive.json 失败: %s",
	"failed":           "✗ 授权失败: %s",
	"cancelled":        "已取消, 未获取到授权码。",
	"recent_logs":      "  最近日志:",
	"initializing_tui": "正在初始化...",
}

var enStrings = map[string]string{
	"title":            "🔐 TYSS Alipan Authorization",
	"auth_url":         "  Authorization URL:",
	"redirect_uri":     "  Callback address: %s",
	"waiting":          "Waiting for the browser callback...",
	"existing_file":    "drive.json already exists and will be overwritten after authorization.",
	"browser_hint":     "  If no browser opened, copy the URL above and visit it manually.",
	"help_waiting":     "  [o] Open browser • [c] Copy URL • [p] Paste callback URL • [L] Language • [q] Quit",
	"help_paste":       "  [Enter] Submit • [Esc] Back",
	"help_done":        "  [Enter] Exit",
	"callback_url":     "  Callback URL: ",
	"paste_hint":       "  If the browser cannot reach this machine, paste the full address bar contents here.",
	"submitting":       "⏳ Submitting callback...",
	"submit_fail":      "✗ Callback submission failed: %s",
	"copied":           "✓ URL copied to clipboard",
	"copy_fail":        "✗ Copy failed: %s",
	"opened":           "✓ Opened in browser",
	"open_fail":        "✗ Failed to open browser: %s",
	"saved_to":         "  File: %s",
	"save_failed":      "✗ The code was received but drive.json could not be saved: %s",
	"failed":           "✗ Authorization failed: %s",
	"cancelled":        "Cancelled, no authorization code was captured.",
	"recent_logs":      "  Recent logs:",
	"initializing_tui": "Initializing...",
}
