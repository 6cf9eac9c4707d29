package errCode

// Code 错误码
type Code int

const (
	OK                    Code = iota
	INVALID_VALUE              // 非法取值（NaN/Inf、非对称、格式错误）
	EMPTY_VALUE                // 输入为空
	DIMENSION_MISMATCH         // 矩阵维度不匹配
	SINGULAR_MATRIX            // 矩阵奇异或条件数过大
	NUMERICAL_INSTABILITY      // 求解结果出现非有限值
	CONFIG_ERROR               // 配置文件错误
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case INVALID_VALUE:
		return "INVALID_VALUE"
	case EMPTY_VALUE:
		return "EMPTY_VALUE"
	case DIMENSION_MISMATCH:
		return "DIMENSION_MISMATCH"
	case SINGULAR_MATRIX:
		return "SINGULAR_MATRIX"
	case NUMERICAL_INSTABILITY:
		return "NUMERICAL_INSTABILITY"
	case CONFIG_ERROR:
		return "CONFIG_ERROR"
	default:
		return "UNKNOWN"
	}
}
