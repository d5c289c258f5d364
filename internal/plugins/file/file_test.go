package file_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/auditlog"
	"github.com/eginner01/rFBA-sub002/internal/core/port"
	"github.com/eginner01/rFBA-sub002/internal/core/response"
	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/eginner01/rFBA-sub002/internal/plugins/file"
	"github.com/eginner01/rFBA-sub002/internal/plugins/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/api/v1/sys/files"

// 最小的合法 PNG 文件头，足以让类型探测识别为 image/png
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func newEnv(t *testing.T, opts ...plugintest.Option) *plugintest.Env {
	return plugintest.New(t, []port.Plugin{file.New()}, opts...)
}

// send 以 multipart 表单上传 content，fields 为附加的普通字段
func send(t *testing.T, env *plugintest.Env, token, name string, content []byte, fields map[string]string) *plugintest.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if name != "" {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, base+"/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.Host.ServeHTTP(w, req)

	res := &plugintest.Response{Status: w.Code, Header: w.Header(), Body: w.Body.Bytes()}
	if len(res.Body) > 0 && res.Body[0] == '{' {
		require.NoError(t, json.Unmarshal(res.Body, res))
	}
	return res
}

func upload(t *testing.T, env *plugintest.Env, name string, content []byte) file.FileInfo {
	t.Helper()
	res := send(t, env, env.AdminToken, name, content, nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "上传成功", res.Msg)
	var f file.FileInfo
	res.Into(t, &f)
	return f
}

// ============================================================================
//  上传
// ============================================================================

func TestUpload_StoresFileAndMetadata(t *testing.T) {
	env := newEnv(t)
	f := upload(t, env, "logo.PNG", pngBytes)

	assert.Positive(t, f.ID)
	assert.Equal(t, "logo.PNG", f.FileName)
	assert.Equal(t, "logo.PNG", f.OriginalName)
	assert.Equal(t, "png", f.FileSuffix)
	assert.EqualValues(t, len(pngBytes), f.FileSize)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, file.StorageLocal, f.StorageType)
	assert.Equal(t, file.AccessPrivate, f.AccessPermission)
	assert.Equal(t, "admin", f.Uploader)
	assert.Zero(t, f.DownloadCount)

	sum := sha256.Sum256(pngBytes)
	require.NotNil(t, f.FileHash)
	assert.Equal(t, hex.EncodeToString(sum[:]), *f.FileHash)

	assert.Regexp(t, `^\d{4}/\d{2}/[0-9a-f-]{36}\.png$`, f.FilePath)
	assert.Equal(t, file.URLPrefix+"/"+f.FilePath, f.URL)

	onDisk, err := os.ReadFile(filepath.Join(env.Config.Paths.Upload, filepath.FromSlash(f.FilePath)))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, onDisk)

	// 上传目录通过静态路由公开
	res := env.Do(http.MethodGet, f.URL, nil, "")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, pngBytes, res.Body)
}

func TestUpload_FormFields(t *testing.T) {
	env := newEnv(t)
	res := send(t, env, env.AdminToken, "notes.txt", []byte("hello\n"), map[string]string{
		"access_permission": "2",
		"remark":            "说明",
	})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var f file.FileInfo
	res.Into(t, &f)
	assert.Equal(t, file.AccessPublic, f.AccessPermission)
	require.NotNil(t, f.Remark)
	assert.Equal(t, "说明", *f.Remark)
	assert.True(t, strings.HasPrefix(f.ContentType, "text/plain"), f.ContentType)

	res = send(t, env, env.AdminToken, "notes.txt", []byte("x"), map[string]string{"access_permission": "9"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "访问权限必须是1、2或3", res.Msg)
}

func TestUpload_Rejections(t *testing.T) {
	env := newEnv(t, func(c *fbaconf.Config) {
		c.Upload.MaxSize = 16
		c.Upload.Extensions = []string{"png", ".TXT"}
	})

	res := send(t, env, env.AdminToken, "big.txt", bytes.Repeat([]byte("a"), 17), nil)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "文件大小超过限制: 最大 16B", res.Msg)

	res = send(t, env, env.AdminToken, "run.exe", []byte("MZ"), nil)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "不支持的文件类型: exe", res.Msg)

	res = send(t, env, env.AdminToken, "Makefile", []byte("all:"), nil)
	assert.Equal(t, "不支持的文件类型: (无后缀)", res.Msg)

	res = send(t, env, env.AdminToken, "empty.txt", nil, nil)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "上传文件不能为空", res.Msg)

	res = send(t, env, env.AdminToken, "", nil, map[string]string{"remark": "no file"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "请选择要上传的文件", res.Msg)

	res = env.Admin(http.MethodPost, base+"/upload", map[string]any{"file": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)

	// 大小写不敏感的后缀白名单
	res = send(t, env, env.AdminToken, "ok.TXT", []byte("fine"), nil)
	assert.Equal(t, http.StatusOK, res.Status, string(res.Body))

	var n int64
	require.NoError(t, env.DB.Model(&file.FileInfo{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "被拒绝的上传不写元数据")
}

// ============================================================================
//  查询、修改与删除
// ============================================================================

func TestFile_PageAndStatistics(t *testing.T) {
	env := newEnv(t)
	for i := 1; i <= 12; i++ {
		upload(t, env, fmt.Sprintf("img-%02d.png", i), pngBytes)
	}
	doc := upload(t, env, "report.txt", []byte("quarterly"))
	res := env.Admin(http.MethodPut, fmt.Sprintf("%s/%d", base, doc.ID), map[string]any{
		"file_name": "report.txt", "access_permission": file.AccessOrg,
	})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))

	var p response.Page[file.FileInfo]
	env.Admin(http.MethodGet, base+"?page=1&size=5", nil).Into(t, &p)
	assert.EqualValues(t, 13, p.Total)
	assert.EqualValues(t, 3, p.Pages)
	require.Len(t, p.Items, 5)
	assert.Equal(t, "report.txt", p.Items[0].FileName, "按 ID 倒序")
	assert.NotEmpty(t, p.Items[0].URL)

	env.Admin(http.MethodGet, base+"?file_suffix=.PNG&file_name=img-1", nil).Into(t, &p)
	// img-10, img-11, img-12
	assert.EqualValues(t, 3, p.Total)

	env.Admin(http.MethodGet, base+"?access_permission=3", nil).Into(t, &p)
	require.EqualValues(t, 1, p.Total)
	assert.Equal(t, doc.ID, p.Items[0].ID)

	var st file.Statistics
	env.Admin(http.MethodGet, base+"/statistics", nil).Into(t, &st)
	assert.EqualValues(t, 13, st.TotalFiles)
	assert.EqualValues(t, 12*len(pngBytes)+len("quarterly"), st.TotalSize)
	require.Len(t, st.ByPermission, 2)
	assert.Equal(t, file.PermissionStat{AccessPermission: file.AccessPrivate, Count: 12, Size: int64(12 * len(pngBytes))}, st.ByPermission[0])
	assert.Equal(t, file.AccessOrg, st.ByPermission[1].AccessPermission)
}

func TestFile_Update(t *testing.T) {
	env := newEnv(t)
	f := upload(t, env, "a.png", pngBytes)

	res := env.Admin(http.MethodPut, fmt.Sprintf("%s/%d", base, f.ID), map[string]any{
		"file_name": "头像.png", "access_permission": 2, "remark": "个人头像",
	})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "更新成功", res.Msg)

	var got file.FileInfo
	env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", base, f.ID), nil).Into(t, &got)
	assert.Equal(t, "头像.png", got.FileName)
	assert.Equal(t, "a.png", got.OriginalName)
	assert.Equal(t, f.FilePath, got.FilePath)
	require.NotNil(t, got.UpdatedTime)

	res = env.Admin(http.MethodPut, fmt.Sprintf("%s/%d", base, f.ID), map[string]any{"file_name": "", "access_permission": 4})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
	assert.Equal(t, "文件名长度必须在1-255之间, 访问权限必须是1、2或3", res.Msg)

	res = env.Admin(http.MethodPut, base+"/999999", map[string]any{"file_name": "x", "access_permission": 1})
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "文件不存在", res.Msg)
}

func TestFile_BatchDeleteIsSoft(t *testing.T) {
	env := newEnv(t)
	a := upload(t, env, "a.png", pngBytes)
	b := upload(t, env, "b.png", pngBytes)
	c := upload(t, env, "c.png", pngBytes)

	res := env.Admin(http.MethodDelete, base, map[string]any{"ids": []int64{a.ID, b.ID, a.ID}})
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "删除成功", res.Msg)

	res = env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", base, a.ID), nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	var rows []file.FileInfo
	env.Admin(http.MethodGet, base+"/all", nil).Into(t, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, c.ID, rows[0].ID)

	var deleted int64
	require.NoError(t, env.DB.Unscoped().Model(&file.FileInfo{}).Where("deleted_time IS NOT NULL").Count(&deleted).Error)
	assert.EqualValues(t, 2, deleted)
	_, err := os.Stat(filepath.Join(env.Config.Paths.Upload, filepath.FromSlash(a.FilePath)))
	assert.NoError(t, err, "软删除保留磁盘文件")

	res = env.Admin(http.MethodDelete, base, map[string]any{"ids": []int64{}})
	assert.Equal(t, http.StatusOK, res.Status)
}

// ============================================================================
//  下载
// ============================================================================

func TestFile_DownloadCountsAndServes(t *testing.T) {
	env := newEnv(t)
	f := upload(t, env, "report.txt", []byte("quarterly numbers"))
	url := fmt.Sprintf("%s/%d/download", base, f.ID)

	for i := 0; i < 2; i++ {
		res := env.Admin(http.MethodGet, url, nil)
		require.Equal(t, http.StatusOK, res.Status, string(res.Body))
		assert.Equal(t, "quarterly numbers", string(res.Body))
		assert.Contains(t, res.Header.Get("Content-Disposition"), `filename="report.txt"`)
	}

	var got file.FileInfo
	env.Admin(http.MethodGet, fmt.Sprintf("%s/%d", base, f.ID), nil).Into(t, &got)
	assert.EqualValues(t, 2, got.DownloadCount)
	assert.Nil(t, got.UpdatedTime, "下载不算修改")

	res := env.Do(http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusForbidden, res.Status, "下载需要登录")
}

func TestFile_DownloadMissingOnDisk(t *testing.T) {
	env := newEnv(t)
	f := upload(t, env, "gone.png", pngBytes)
	require.NoError(t, os.Remove(filepath.Join(env.Config.Paths.Upload, filepath.FromSlash(f.FilePath))))

	res := env.Admin(http.MethodGet, fmt.Sprintf("%s/%d/download", base, f.ID), nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "文件已丢失", res.Msg)

	res = env.Admin(http.MethodGet, base+"/999999/download", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "文件不存在", res.Msg)
}

// ============================================================================
//  权限与操作日志
// ============================================================================

func TestFile_PermissionsAndOperationLog(t *testing.T) {
	env := newEnv(t)
	uid := env.SeedUser("editor", "secret1", false)
	token := env.TokenFor(uid)

	res := send(t, env, token, "a.png", pngBytes, nil)
	assert.Equal(t, http.StatusForbidden, res.Status)

	env.Grant(uid, file.PermUpload)
	res = send(t, env, token, "a.png", pngBytes, nil)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var f file.FileInfo
	res.Into(t, &f)
	assert.Equal(t, "editor", f.Uploader)

	res = env.Do(http.MethodDelete, base, map[string]any{"ids": []int64{f.ID}}, token)
	assert.Equal(t, http.StatusForbidden, res.Status)

	env.FlushAudit()
	var rows []auditlog.OperaLog
	require.NoError(t, env.DB.Where("title = ?", "上传文件").Find(&rows).Error)
	require.Len(t, rows, 1, "权限不足的请求不记录操作日志")
	assert.Equal(t, "create", rows[0].BusinessType)
	assert.Equal(t, "上传成功", rows[0].Msg)
	require.NotNil(t, rows[0].Username)
	assert.Equal(t, "editor", *rows[0].Username)
}
