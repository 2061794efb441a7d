package summarizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"
)

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		"Acquisition Summary":   "取得サマリー",
		"Run":                   "実行",
		"Settings":              "設定",
		"Result":                "結果",
		"Output directory":      "出力ディレクトリ",
		"Run ID":                "実行 ID",
		"Created":               "作成日時",
		"Backend":               "バックエンド",
		"Version":               "バージョン",
		"Dry run":               "ドライラン",
		"Target rate":           "目標レート",
		"Resolution":            "解像度",
		"Duration":              "時間",
		"until interrupted":     "中断まで",
		"Device":                "デバイス",
		"Existing output":       "既存出力",
		"Frames saved":          "保存フレーム数",
		"Frames captured":       "キャプチャフレーム数",
		"First file":            "最初のファイル",
		"Wall time":             "経過時間",
		"Effective rate":        "実効レート",
		"Frame size":            "フレームサイズ",
		"Stop reason":           "停止理由",
		"Stop error":            "停止エラー",
		"Previous dataset":      "以前のデータセット",
		"%d records, %d frames": "%d レコード, %d フレーム",
		"yes":                   "はい",
		"no":                    "いいえ",
		"Generated at %s":       "%s に生成",
	})
}

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", l10n.T("Acquisition Summary"))

	section(&b, l10n.T("Run"), [][2]string{
		{l10n.T("Output directory"), code(s.Run.OutputDir)},
		{l10n.T("Run ID"), code(s.Run.RunID)},
		{l10n.T("Created"), s.Run.Created},
		{l10n.T("Backend"), s.Run.Backend},
		{l10n.T("Version"), s.Run.Version},
		{l10n.T("Dry run"), yesNo(s.Run.DryRun)},
	})

	duration := l10n.T("until interrupted")
	if s.Settings.Seconds > 0 {
		duration = fmt.Sprintf("%g s", s.Settings.Seconds)
	}
	section(&b, l10n.T("Settings"), [][2]string{
		{l10n.T("Target rate"), fmt.Sprintf("%g fps", s.Settings.FPS)},
		{l10n.T("Resolution"), fmt.Sprintf("%dx%d", s.Settings.Width, s.Settings.Height)},
		{l10n.T("Duration"), duration},
		{l10n.T("Device"), fmt.Sprintf("%d", s.Settings.Device)},
		{l10n.T("Existing output"), s.Settings.OnExisting},
	})

	framesLabel := l10n.T("Frames saved")
	if s.Run.DryRun {
		framesLabel = l10n.T("Frames captured")
	}
	rows := [][2]string{
		{framesLabel, fmt.Sprintf("%d", s.Result.Frames)},
		{l10n.T("First file"), code(fmt.Sprintf("frames/%06d.png", s.Result.FirstSequence))},
		{l10n.T("Wall time"), formatDuration(s.Result.Duration)},
		{l10n.T("Effective rate"), fmt.Sprintf("%.2f fps", s.Result.EffectiveFPS)},
		{l10n.T("Frame size"), frameSize(s.Result)},
		{l10n.T("Stop reason"), s.Result.StopReason},
	}
	if s.Result.StopError != "" {
		rows = append(rows, [2]string{l10n.T("Stop error"), code(s.Result.StopError)})
	}
	if s.Existing.MetadataLines > 0 || s.Existing.FrameFiles > 0 {
		rows = append(rows, [2]string{l10n.T("Previous dataset"),
			l10n.F("%d records, %d frames", s.Existing.MetadataLines, s.Existing.FrameFiles)})
	}
	section(&b, l10n.T("Result"), rows)

	fmt.Fprintf(&b, "---\n\n_%s_\n", l10n.F("Generated at %s", s.GeneratedAt.Format(time.RFC3339)))
	return b.String()
}

func section(b *strings.Builder, title string, rows [][2]string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| | |\n|---|---|\n")
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(b, "| %s | %s |\n", row[0], escape(row[1]))
	}
	b.WriteString("\n")
}

func frameSize(r ResultInfo) string {
	if r.Frames == 0 {
		return "-"
	}
	if r.MinWidth == r.MaxWidth && r.MinHeight == r.MaxHeight {
		return fmt.Sprintf("%dx%d", r.MinWidth, r.MinHeight)
	}
	return fmt.Sprintf("%dx%d - %dx%d", r.MinWidth, r.MinHeight, r.MaxWidth, r.MaxHeight)
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2f s", d.Seconds())
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

func yesNo(v bool) string {
	if v {
		return l10n.T("yes")
	}
	return l10n.T("no")
}

// escape keeps table cells on one line.
func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
