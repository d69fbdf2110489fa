package main

// 程序入口。
// 配置加载、命令注册与分发都在 cli.Run 中完成，进程以命令的返回值退出。
import "apper/cli"

func main() {
	cli.Run()
}
