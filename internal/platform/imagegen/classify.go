package imagegen

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hekuanga/ImgFactory-sub000/internal/generation"
	"github.com/hekuanga/ImgFactory-sub000/internal/redact"
)

// Vendor moderation codes observed in production. The Output* variants fire
// against the vendor's own generated image and are empirically always false
// positives: the identical request retried never clears them, but the other
// vendor usually succeeds.
const (
	codeOutputImageSensitive = "OutputImageSensitiveContentDetected"
	codeOutputTextSensitive  = "OutputTextSensitiveContentDetected"
	codeInputImageSensitive  = "InputImageSensitiveContentDetected"
	codeInputTextSensitive   = "InputTextSensitiveContentDetected"
	codeSensitiveContent     = "SensitiveContentDetected"
)

// vendorErrorBody covers both error envelopes the vendors use:
// `{"error": {"code": ..., "message": ...}}` and flat `{"code": ..., "message": ...}`.
type vendorErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Classify maps a vendor's non-2xx HTTP response onto the closed error
// category set. The returned VendorError's Message and Suggestion are safe
// for clients; the raw vendor detail is kept only in the wrapped error,
// which is logged server-side and never forwarded.
func Classify(vendor generation.Vendor, statusCode int, body []byte) *generation.VendorError {
	vendorCode, vendorMessage := parseErrorBody(body)

	category := categoryForCode(vendorCode)
	if category == "" {
		category = categoryForStatus(statusCode)
	}

	verr := &generation.VendorError{
		Vendor:     vendor,
		Category:   category,
		StatusCode: statusCode,
		VendorCode: vendorCode,
		Err: fmt.Errorf("%w: vendor %s returned status %d: %s",
			sentinelFor(category), vendor, statusCode, redact.String(vendorMessage)),
	}
	verr.Message, verr.Suggestion = userFacingText(category)

	return verr
}

// ClassifyTransport maps a transport-level failure (connection refused,
// timeout, aborted read) onto the transient server-error category.
func ClassifyTransport(vendor generation.Vendor, err error) *generation.VendorError {
	verr := &generation.VendorError{
		Vendor:   vendor,
		Category: generation.CategoryServerError,
		Err: fmt.Errorf("%w: vendor %s unreachable: %s",
			generation.ErrTransientFailure, vendor, redact.Error(err)),
	}
	verr.Message, verr.Suggestion = userFacingText(generation.CategoryServerError)
	return verr
}

func parseErrorBody(body []byte) (code, message string) {
	var parsed vendorErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", string(body)
	}
	if parsed.Error != nil {
		return parsed.Error.Code, parsed.Error.Message
	}
	return parsed.Code, parsed.Message
}

// categoryForCode maps vendor-specific error codes. Returns "" when the code
// carries no signal and the HTTP status should decide.
func categoryForCode(code string) generation.ErrorCategory {
	switch code {
	case codeOutputImageSensitive, codeOutputTextSensitive:
		return generation.CategorySensitiveOutput
	case codeInputImageSensitive, codeInputTextSensitive, codeSensitiveContent:
		return generation.CategorySensitiveInput
	}
	return ""
}

func categoryForStatus(statusCode int) generation.ErrorCategory {
	switch {
	case statusCode == http.StatusUnauthorized:
		return generation.CategoryAuthFailed
	case statusCode == http.StatusForbidden:
		return generation.CategoryPermissionDenied
	case statusCode == http.StatusBadRequest:
		return generation.CategoryBadRequest
	case statusCode == http.StatusRequestEntityTooLarge:
		return generation.CategoryPayloadTooLarge
	case statusCode == http.StatusTooManyRequests:
		return generation.CategoryRateLimited
	case statusCode >= 500:
		return generation.CategoryServerError
	}
	return generation.CategoryUnknown
}

// sentinelFor picks the sentinel error wrapped into the VendorError chain so
// callers can branch with errors.Is.
func sentinelFor(category generation.ErrorCategory) error {
	switch category {
	case generation.CategorySensitiveOutput:
		return generation.ErrOutputFlagged
	case generation.CategoryRateLimited, generation.CategoryServerError:
		return generation.ErrTransientFailure
	}
	return generation.ErrGenerationFailed
}

// userFacingText returns the client-safe message and bilingual suggestion
// for a category. None of these strings ever embed vendor payloads or keys.
func userFacingText(category generation.ErrorCategory) (message, suggestion string) {
	switch category {
	case generation.CategoryAuthFailed:
		return "The image service rejected our credentials.",
			"Please try again later. / 服务凭证异常，请稍后重试。"
	case generation.CategoryPermissionDenied:
		return "The image service denied access for this request.",
			"Please try again later. / 服务暂时不可用，请稍后重试。"
	case generation.CategoryBadRequest:
		return "The image service could not process this request.",
			"Please check the uploaded photo and try again. / 请检查上传的照片后重试。"
	case generation.CategoryPayloadTooLarge:
		return "The uploaded photo is too large for the image service.",
			"Please upload a smaller photo. / 照片过大，请上传较小的照片。"
	case generation.CategoryRateLimited:
		return "The image service is busy right now.",
			"Please wait a moment and try again. / 服务繁忙，请稍后重试。"
	case generation.CategoryServerError:
		return "The image service had a temporary problem.",
			"Please try again in a few minutes. / 服务暂时异常，请几分钟后重试。"
	case generation.CategorySensitiveInput:
		return "The uploaded photo was flagged by the image service's content filter.",
			"Please upload a different photo. / 上传的照片未通过内容审核，请更换照片。"
	case generation.CategorySensitiveOutput:
		return "The generated image was incorrectly flagged by the vendor's content filter.",
			"This is a known false positive; please retry with the other model. / 生成结果被误判为敏感内容，请切换另一个模型重试。"
	case generation.CategoryMalformedResponse:
		return "The image service returned an unexpected response.",
			"Please try again later. / 服务返回异常，请稍后重试。"
	}
	return "Image generation failed unexpectedly.",
		"Please try again later. / 生成失败，请稍后重试。"
}
