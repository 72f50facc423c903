package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// 状态颜色
var (
	runningColor  = color.NRGBA{R: 76, G: 175, B: 80, A: 255}
	pausedColor   = color.NRGBA{R: 255, G: 152, B: 0, A: 255}
	completeColor = color.NRGBA{R: 255, G: 64, B: 129, A: 255}
)

// variantTheme 固定使用深色或浅色，其余沿用默认主题
type variantTheme struct {
	variant fyne.ThemeVariant
}

func newVariantTheme(dark bool) fyne.Theme {
	if dark {
		return variantTheme{variant: theme.VariantDark}
	}
	return variantTheme{variant: theme.VariantLight}
}

func (t variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, t.variant)
}

func (t variantTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t variantTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t variantTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
