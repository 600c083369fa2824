//go:build windows

package device

import (
	"bytes"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	coreDLLName = "HoloPlayCore.dll"

	// hpc_license_type: 非商业授权
	licenseNonCommercial = 0
	stateBufferSize      = 64 * 1024
)

// CoreDriver 通过 HoloPlayCore.dll 访问设备服务（无 cgo）
type CoreDriver struct {
	appName string

	mu          sync.Mutex
	dll         *windows.DLL
	procInit    *windows.Proc
	procState   *windows.Proc
	procClose   *windows.Proc
	initialized bool
}

// NewCoreDriver 创建 HoloPlayCore 驱动
func NewCoreDriver(appName string) *CoreDriver {
	if appName == "" {
		appName = "LookingGlass"
	}
	return &CoreDriver{appName: appName}
}

func (d *CoreDriver) Name() string { return "holoplaycore" }

func (d *CoreDriver) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	dll, err := windows.LoadDLL(coreDLLName)
	if err != nil {
		return fmt.Errorf("加载 %s 失败: %w", coreDLLName, err)
	}

	procs := map[string]**windows.Proc{
		"hpc_InitializeApp":  &d.procInit,
		"hpc_GetStateAsJSON": &d.procState,
		"hpc_CloseApp":       &d.procClose,
	}
	for name, dst := range procs {
		p, err := dll.FindProc(name)
		if err != nil {
			dll.Release()
			return fmt.Errorf("%s 缺少导出函数 %s: %w", coreDLLName, name, err)
		}
		*dst = p
	}

	name, err := windows.BytePtrFromString(d.appName)
	if err != nil {
		dll.Release()
		return err
	}
	// 返回 client_error，0 表示成功
	r1, _, _ := d.procInit.Call(uintptr(unsafe.Pointer(name)), licenseNonCommercial)
	if r1 != 0 {
		dll.Release()
		return fmt.Errorf("连接设备服务失败 (client_error=%d)", r1)
	}

	d.dll = dll
	d.initialized = true
	return nil
}

func (d *CoreDriver) StateJSON() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return nil, ErrNotLoaded
	}

	buf := make([]byte, stateBufferSize)
	for attempt := 0; attempt < 2; attempt++ {
		// 返回 0 表示成功，否则为所需的缓冲区大小
		r1, _, _ := d.procState.Call(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if r1 == 0 {
			if i := bytes.IndexByte(buf, 0); i >= 0 {
				buf = buf[:i]
			}
			return buf, nil
		}
		buf = make([]byte, int(r1)+1)
	}
	return nil, fmt.Errorf("读取设备状态失败：缓冲区不足")
}

func (d *CoreDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return nil
	}
	d.procClose.Call()
	d.initialized = false
	err := d.dll.Release()
	d.dll = nil
	return err
}
