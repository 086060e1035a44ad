package config

type WorkerKeyStruct struct {
	ActivationMailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ActivationMailQueue: "activation_mail_queue",
}
