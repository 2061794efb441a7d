package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Run level (info)
		"Recording to %s with %s backend at %.1f fps": "%s に %s バックエンドで %.1f fps で記録中",
		"Recording for %.1f seconds":                  "%.1f 秒間記録します",
		"Recording until interrupted (Ctrl+C to stop)": "中断されるまで記録します (Ctrl+C で停止)",
		"Dry run: frames are captured but not saved":   "ドライラン: フレームはキャプチャされますが保存されません",
		"Saved %d frames":                              "%d フレームを保存しました",
		"Saved %d frames under %s":                     "%d フレームを %s に保存しました",
		"Captured %d frames (discarded)": "%d フレームをキャプチャしました (破棄)",
		"Stopped: %s":                                  "停止理由: %s",
		"Effective rate: %.2f fps":                     "実効レート: %.2f fps",
		"Interrupted, shutting down...":                "中断されました。シャットダウン中...",
		"Summary written to %s":                        "サマリーを %s に書き出しました",
		"Resuming frame numbering at %06d":             "フレーム番号を %06d から再開します",

		// Camera component
		"Opening %s camera":                "%s カメラを開いています",
		"Opened %s at %dx%d (%s)":          "%s を %dx%d (%s) で開きました",
		"Using ffmpeg at %s":               "ffmpeg を使用: %s",
		"Camera reported %dx%d, requested %dx%d": "カメラの解像度は %dx%d です (要求: %dx%d)",

		// Acquire component
		"Frame read failed, stopping: %s": "フレームの読み取りに失敗したため停止します: %s",
		"Capture aborted by interrupt: %s": "中断によりキャプチャを中止しました: %s",
		"Camera open aborted by interrupt: %s": "中断によりカメラのオープンを中止しました: %s",

		// Warnings
		"Output directory already holds %d records and %d frames; appending and numbering from 000000 will overwrite frames": "出力ディレクトリには既に %d 件のレコードと %d 枚のフレームがあります。追記し 000000 から番号を振るためフレームが上書きされます",
		"Failed to close camera: %s": "カメラのクローズに失敗しました: %s",
		"Failed to close output: %s": "出力のクローズに失敗しました: %s",

		// Errors
		"Failed to save frame %d: %s":    "フレーム %d の保存に失敗しました: %s",
		"Failed to append record %d: %s": "レコード %d の追記に失敗しました: %s",
		"Failed to write summary: %s":    "サマリーの書き出しに失敗しました: %s",
	})
}
