// Command redlock-demo walks through a single acquire/critical-section/
// release cycle against an in-process quorum of miniredis servers, mirroring
// the teacher's examples/lock/main.go leader-election walkthrough.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/mirkobrombin/redlock/v1/redlock"
)

func main() {
	ctx := context.Background()

	const n = 3
	instances := make([]*redlock.Instance, 0, n)
	for i := 0; i < n; i++ {
		mr, err := miniredis.Run()
		if err != nil {
			log.Fatalf("miniredis: %v", err)
		}
		defer mr.Close()
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		inst, err := redlock.NewInstanceFromClient(ctx, client)
		if err != nil {
			log.Fatalf("new instance: %v", err)
		}
		instances = append(instances, inst)
	}

	coord, err := redlock.NewCoordinator(instances)
	if err != nil {
		log.Fatalf("new coordinator: %v", err)
	}

	ok := coord.Run(ctx, "leader", time.Second, func(l *redlock.Lock) {
		fmt.Printf("acquired %q with token %s, validity %v\n", l.Resource, l.Value, l.Validity)
		fmt.Println("elected leader; doing critical-section work")
		time.Sleep(50 * time.Millisecond)
	})
	if !ok {
		log.Fatal("failed to acquire leadership")
	}
	fmt.Println("released leadership")

	if coord.LockedQ(ctx, "leader") {
		log.Fatal("resource should be unlocked after Run returns")
	}
	fmt.Println("confirmed: resource is unlocked")
}
