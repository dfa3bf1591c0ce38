package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"gendict/utils"
)

var (
	param_debug   = flag.Bool("D", false, "debug")
	param_version = flag.Bool("v", false, "version")
	param_config  = flag.String("f", "etc/dictsvc.toml", "config filename, relative to the working directory")
	START_TIME    = time.Now()
)

func main() {
	flag.Parse()
	if *param_version {
		fmt.Println(utils.Version("dictsvc"))
		os.Exit(0)
	}
	utils.ShowBannerForApp("dictsvc", "serve and load generated personal dictionaries")

	// load config
	myconfig, err := LoadConfig(*param_config)
	if err != nil {
		fmt.Printf("loadConfig error %s\n", err)
		os.Exit(1)
	}
	if *param_debug {
		myconfig.LogConfig.Level = "debug"
	}

	// init log
	err = utils.InitLogRotate(myconfig.LogConfig.Path, myconfig.LogConfig.Filename,
		myconfig.LogConfig.Level,
		myconfig.LogConfig.Rotate_files,
		myconfig.LogConfig.Rotate_mbytes)
	if err != nil {
		fmt.Printf("InitLogRotate error %s\n", err)
		os.Exit(1)
	}

	log.Infof("BEGIN... %v, config=%v, debug=%v",
		START_TIME.Format("2006-01-02 15:04:05"), *param_config, *param_debug)
	log.Debugf("MyConfig: %s", myconfig.Dump())

	var done = make(chan bool, 2)
	var wg sync.WaitGroup

	// build the api server of gofiber, then serve it in background
	var apiServer = &ApiServer{Myconfig: myconfig}
	if err = apiServer.Start(); err != nil {
		fmt.Printf("start api server error %s\n", err)
		os.Exit(1)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := apiServer.Serve(); err != nil {
			done <- true
		}
	}()

	// set signal, when signaled then sent a message to done channel
	setSignal(done)

	// GracefullyExit, stop and wait all routines
	gracefullyExit := func() {
		log.Info("GracefullyExit")
		apiServer.Stop()
		wg.Wait()
	}

	// blocks until the api server fails or a signal comes
	<-done
	gracefullyExit()
	log.Infof("END... %v", time.Now().Format("2006-01-02 15:04:05"))
}

func setSignal(done chan bool) {
	var signchan = make(chan os.Signal, 1)
	signal.Notify(signchan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		s := <-signchan
		signal.Stop(signchan)
		log.Info("receive SIGNAL: ", s)
		done <- true
	}()
}
