package docmark

import "github.com/riverfjs/docmark-go/internal/selection"

// HandleCopy 用选区覆盖的块源码改写复制事件
//
// 关闭 Markdown 复制、选区为空或无法定位到块时返回 false，事件保持不变。
func HandleCopy(pass *Pass, prefs *Preferences, sel Selection, ev CopyEvent) bool {
	return selection.NewMapper(prefs, pass).HandleCopy(sel, ev)
}

// Copy 返回一次复制得到的文本
//
// intercepted 为 true 时 text 是块的 Markdown 源码，否则是渲染后的默认文本。
func Copy(pass *Pass, prefs *Preferences, sel Selection) (text string, intercepted bool) {
	ev := selection.NewEvent()
	if HandleCopy(pass, prefs, sel, ev) {
		text, _ = ev.Data(selection.FormatPlainText)
		return text, true
	}
	return selection.DefaultText(pass, sel), false
}

// BlockSelection 构造覆盖块 from 到 to（含）的选区
func BlockSelection(pass *Pass, from, to int) (Selection, bool) {
	return selection.BlockSelection(pass, from, to)
}
