// Package main provides localization for the framelog CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Version command
		"framelog version %s": "framelog バージョン %s",

		// Record command
		"output directory argument is required": "出力ディレクトリ引数が必要です",

		// Doctor command
		"Platform: %s/%s":             "プラットフォーム: %s/%s",
		"Video devices: %v":           "ビデオデバイス: %v",
		"requires Linux":              "Linux が必要です",
		"%s not found":                "%s が見つかりません",
		"always available":            "常に利用可能",
		"no camera backend is usable": "利用可能なカメラバックエンドがありません",
	})
}
