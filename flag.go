package brace

const (
	flagAssignable = uint8(1 << iota) // from 可直接赋值给 to，即允许隐式转换
	flagCustom                        // 是否是用户自定义
)

func isAssignable(flag uint8) bool {
	return flag&flagAssignable != 0
}
