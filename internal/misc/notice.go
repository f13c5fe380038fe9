// Package misc holds user-facing texts and small console helpers shared by both front-ends.
package misc

import (
	"fmt"
	"strings"
)

// SuccessNoticeZH is the Chinese success notice shown once the code has been saved.
const SuccessNoticeZH = "授权成功!\n" +
	"授权码已保存到 drive.json 文件\n" +
	"请将其放到SD卡根目录的TYSS文件夹中,并在10分钟之内启动TYSS完成客户端授权!"

// SuccessNoticeEN is the English translation of SuccessNoticeZH.
const SuccessNoticeEN = "Authorization succeeded!\n" +
	"The authorization code has been saved to drive.json.\n" +
	"Copy it into the TYSS folder at the root of your SD card and start TYSS within 10 minutes to finish authorizing the client."

// PageClosableZH tells the user the browser tab is no longer needed.
const PageClosableZH = "此网页可安全关闭。"

// PressEnterToExit is printed by the console front-end after a successful capture.
const PressEnterToExit = "操作已完成, 请按下回车退出程序... / Done, press Enter to exit..."

// SaveFailedZH is shown when the code was captured but drive.json could not be written.
const SaveFailedZH = "授权码已收到, 但保存 drive.json 失败, 请查看程序窗口中的错误信息后重新运行。\n" +
	"The authorization code was received but drive.json could not be saved. Check the helper window and run it again."

// MissingCodeMessage answers a callback request without a code.
const MissingCodeMessage = "Missing code in callback URL."

// NotFoundMessage answers any request outside the callback path.
const NotFoundMessage = "Not found."

// SuccessNotice returns the bilingual success notice, Chinese first.
func SuccessNotice() string {
	return SuccessNoticeZH + "\n\n" + SuccessNoticeEN
}

// CallbackSuccessPage returns the plain-text body served to the browser after a capture.
func CallbackSuccessPage() string {
	return SuccessNoticeZH + "\n" + PageClosableZH
}

// ManualVisitInstructions formats the fallback shown when no browser could be opened.
func ManualVisitInstructions(authURL string) string {
	var b strings.Builder
	b.WriteString("Failed to open browser!\n")
	b.WriteString("Please manually visit this URL:\n")
	b.WriteString(authURL)
	return b.String()
}

// ListeningBanner describes where the loopback front-end waits for the redirect.
func ListeningBanner(redirectURI string) string {
	return fmt.Sprintf("Listening for callback at: %s", redirectURI)
}
