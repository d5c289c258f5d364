// Package validate file: internal/core/validate/validate.go
// 基于 validator/v10 的声明式 DTO 校验。约束写在 `validate` 标签里，
// 失败消息写在 `msg` 或 `msg_<tag>` 标签里，所有失败字段按声明顺序以 ", " 拼接。
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/eginner01/rFBA-sub002/internal/core/apperr"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// patterns 是可用于 `validate` 标签的命名正则
var patterns = map[string]*regexp.Regexp{
	"ident":        regexp.MustCompile(`^[a-zA-Z0-9_]+$`),
	"dotted_ident": regexp.MustCompile(`^[a-zA-Z0-9._]+$`),
	"yn":           regexp.MustCompile(`^[YN]$`),
}

// Validator 包装 validator.Validate 并负责消息聚合
type Validator struct {
	v *validator.Validate
}

// New 创建注册了命名正则的校验器
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	for name, re := range patterns {
		re := re
		_ = v.RegisterValidation(name, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	return &Validator{v: v}
}

var std = New()

// Struct 使用默认校验器校验结构体
func Struct(s any) error { return std.Struct(s) }

// Struct 校验结构体，失败时返回单个 ValidationError
func (x *Validator) Struct(s any) error {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var ive *validator.InvalidValidationError
	if errors.As(err, &ive) {
		return apperr.Validation(ive.Error())
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperr.Validation(err.Error())
	}

	typ := reflect.TypeOf(s)
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, message(typ, fe))
	}
	return apperr.Validation(msgs...)
}

// message 依次查找 msg_<tag>、msg 标签，找不到时给出通用描述
func message(root reflect.Type, fe validator.FieldError) string {
	if sf, ok := lookupField(root, fe.StructNamespace()); ok {
		if m := sf.Tag.Get("msg_" + fe.Tag()); m != "" {
			return m
		}
		if m := sf.Tag.Get("msg"); m != "" {
			return m
		}
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s 不满足约束 %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s 不满足约束 %s", fe.Field(), fe.Tag())
}

// lookupField 按 StructNamespace (如 "Outer.Items[0].Name") 找到对应的结构体字段
func lookupField(root reflect.Type, ns string) (reflect.StructField, bool) {
	parts := strings.Split(ns, ".")
	if len(parts) < 2 {
		return reflect.StructField{}, false
	}
	typ := root
	var field reflect.StructField
	for _, part := range parts[1:] {
		if i := strings.IndexByte(part, '['); i >= 0 {
			part = part[:i]
		}
		typ = indirect(typ)
		if typ.Kind() != reflect.Struct {
			return reflect.StructField{}, false
		}
		f, ok := typ.FieldByName(part)
		if !ok {
			return reflect.StructField{}, false
		}
		field = f
		typ = f.Type
	}
	return field, true
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	return t
}

// BindJSON 解析 JSON 请求体并校验
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindError(err)
	}
	return Struct(dst)
}

// BindQuery 解析查询参数并校验
func BindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return bindError(err)
	}
	return Struct(dst)
}

// BindForm 解析 multipart 表单字段并校验，文件部分由调用方另行读取
func BindForm(c *gin.Context, dst any) error {
	if err := c.ShouldBindWith(dst, binding.FormMultipart); err != nil {
		return bindError(err)
	}
	return Struct(dst)
}

// BindURI 解析路径参数并校验
func BindURI(c *gin.Context, dst any) error {
	if err := c.ShouldBindUri(dst); err != nil {
		return bindError(err)
	}
	return Struct(dst)
}

func bindError(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return apperr.Validation("请求参数格式错误: " + err.Error())
}

// BindIDs 解析批量删除载荷，请求体为空时视为空列表
func BindIDs(c *gin.Context) ([]int64, error) {
	var req response.DeleteIDs
	if c.Request.ContentLength == 0 {
		return []int64{}, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, bindError(err)
	}
	return req.Unique(), nil
}

// ParamInt64 读取正整数路径参数
func ParamInt64(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Validation(fmt.Sprintf("路径参数 %s 必须是正整数", name))
	}
	return id, nil
}
