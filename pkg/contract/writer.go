package contract

import (
	"context"
	"io"
)

// Writer: 将标注后的目录与报告以流式方式持久化到目标介质。
// 约束：
//  1. 同一 ArtifactID 单写者；
//  2. 流式写入（O(1) 额外内存），按字节透传，不读取/修改业务内容；
//  3. ctx 取消需尽快返回；
//  4. 错误直接上抛（重试/隔离由调用方决定）。
type Writer interface {
	Write(ctx context.Context, id ArtifactID, r io.Reader) error
}
