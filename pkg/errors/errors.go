package errors

import "errors"

// ErrMutationBusy 公平性数据正被其他导入或重算占用，等待超时
var ErrMutationBusy = errors.New("公平性数据正在被其他操作更新，请稍后重试")

// ErrLockNotHeld 释放锁时发现锁已过期或被他人持有
var ErrLockNotHeld = errors.New("锁已失效或不属于当前持有者")
