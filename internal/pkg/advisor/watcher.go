package advisor

import (
	"os"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// TableWatcher 轮询规则文件，变化时重新加载到 Resolver
// 新文件解析或校验失败时保留旧规则
type TableWatcher struct {
	path     string
	interval time.Duration
	resolver *Resolver

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	modTime time.Time
	size    int64
}

// NewTableWatcher 创建规则文件监听器
func NewTableWatcher(path string, interval time.Duration, resolver *Resolver) *TableWatcher {
	return &TableWatcher{
		path:     path,
		interval: interval,
		resolver: resolver,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 记录当前文件状态并启动轮询
func (w *TableWatcher) Start() {
	if info, err := os.Stat(w.path); err == nil {
		w.modTime, w.size = info.ModTime(), info.Size()
	}
	go w.watch()
}

// Stop 停止轮询并等待退出
func (w *TableWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *TableWatcher) watch() {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.scan()
		case <-w.stop:
			return
		}
	}
}

// scan 检查文件是否变化，返回是否成功加载了新规则
func (w *TableWatcher) scan() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		klog.V(6).Infof("[TableWatcher] 无法读取规则文件 %s: %v", w.path, err)
		return false
	}
	if info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		return false
	}
	w.modTime, w.size = info.ModTime(), info.Size()

	table, err := LoadTable(w.path)
	if err != nil {
		klog.Warningf("[TableWatcher] 规则文件 %s 无效，保留旧规则: %v", w.path, err)
		return false
	}
	if err := w.resolver.Reload(table); err != nil {
		klog.Warningf("[TableWatcher] 重新加载规则失败: %v", err)
		return false
	}
	klog.Infof("[TableWatcher] 已重新加载规则文件 %s", w.path)
	return true
}
